package ingest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	apperrors "github.com/mialing7/pricing-dashboard/internal/errors"
)

func TestReadCSV(t *testing.T) {
	r := NewReader(nil)

	t.Run("plain utf-8", func(t *testing.T) {
		data := []byte("Price,Qty,Partner\n100,10,X\n50,2,Y\n")
		tbl, err := r.Read("trades.csv", data)
		require.NoError(t, err)
		assert.Equal(t, []string{"Price", "Qty", "Partner"}, tbl.Header)
		require.Len(t, tbl.Rows, 2)
		assert.Equal(t, []string{"100", "10", "X"}, tbl.Rows[0])
	})

	t.Run("utf-8 with BOM", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Price,Qty,Partner\n1,2,Z\n")...)
		tbl, err := r.Read("trades.csv", data)
		require.NoError(t, err)
		assert.Equal(t, "Price", tbl.Header[0])
	})

	t.Run("header whitespace trimmed", func(t *testing.T) {
		tbl, err := r.Read("trades.csv", []byte(" Price ,Qty,Partner\n1,2,X\n"))
		require.NoError(t, err)
		assert.Equal(t, "Price", tbl.Header[0])
	})

	t.Run("gbk fallback", func(t *testing.T) {
		utf8Data := []byte("单价,数量,国家\n100,10,越南\n")
		gbkData, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), utf8Data)
		require.NoError(t, err)
		require.False(t, bytes.Equal(utf8Data, gbkData))

		tbl, err := r.Read("trades.csv", gbkData)
		require.NoError(t, err)
		assert.Equal(t, []string{"单价", "数量", "国家"}, tbl.Header)
		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, "越南", tbl.Rows[0][2])
	})

	t.Run("ragged rows are tolerated", func(t *testing.T) {
		tbl, err := r.Read("trades.csv", []byte("Price,Qty,Partner\n1,2\n1,2,X,extra\n"))
		require.NoError(t, err)
		assert.Len(t, tbl.Rows, 2)
	})

	t.Run("empty input fails with FileReadError", func(t *testing.T) {
		_, err := r.Read("trades.csv", nil)
		var fileErr *apperrors.FileReadError
		require.True(t, errors.As(err, &fileErr))
		assert.Equal(t, []string{"utf-8", "gbk"}, fileErr.Encodings)
	})
}

func TestReadWorkbook(t *testing.T) {
	r := NewReader(nil)

	t.Run("first sheet is read", func(t *testing.T) {
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Price", "Qty", "Partner"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{100, 10, "X"}))
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))

		tbl, err := r.Read("trades.xlsx", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, []string{"Price", "Qty", "Partner"}, tbl.Header)
		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, "X", tbl.Rows[0][2])
	})

	t.Run("garbage bytes fail with FileReadError", func(t *testing.T) {
		_, err := r.Read("trades.xlsx", []byte("not a zip archive"))
		var fileErr *apperrors.FileReadError
		require.True(t, errors.As(err, &fileErr))
	})
}

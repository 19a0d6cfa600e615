// Package exporter writes the partner statistics table as UTF-8 CSV with a
// byte-order mark, the format the external export collaborator hands to
// spreadsheet applications.
package exporter

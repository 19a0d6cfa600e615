// Package ingest reads one spreadsheet export into a raw table and caches
// the parse keyed by content hash.
//
// Delimited-text input is decoded through an ordered list of attempts
// (UTF-8, then GBK); the first successful decode+parse wins and the last
// failure surfaces when all attempts fail. Workbook input goes through
// excelize, first sheet only. Only the parsed raw table is memoized;
// every derived stage downstream is recomputed per request.
package ingest

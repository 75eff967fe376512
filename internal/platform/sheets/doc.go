// Package sheets implements the remote spreadsheet client against the
// Google Sheets v4 REST API. Reads are authorized by API key, writes
// by an OAuth token source, and a CSV export serves as the manual
// fallback when writes are not authorized.
package sheets

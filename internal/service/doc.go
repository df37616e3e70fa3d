// Package service wires the certificate fetcher, the x509 extraction and the
// formatter into the two operations a front end needs.
//
//	Show(host)    Fetcher.Fetch -> Outcome -> Render -> string
//	Inspect(path) x509.LoadFile -> Extract -> Outcome -> Render -> string
//
// Neither operation fails. Any problem is logged with its cause and rendered
// as the "no information" text, so a caller only ever displays the result.
package service

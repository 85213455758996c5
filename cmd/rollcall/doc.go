// Command rollcall processes coaching session recordings: it groups inbox
// files into sessions, resolves who attended, and files the results into the
// staging tree and record index.
package main

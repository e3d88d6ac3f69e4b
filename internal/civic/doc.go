// Package civic provides the city's citizen services: the e-government
// service directory and the community engagement platform.
//
// A Community keeps its entries in memory for the life of the process.
// With a Journal attached, each entry is also written out; SQLiteJournal
// appends to the community_entries table, tagging rows with a run ID so
// separate runs never mix.
package civic

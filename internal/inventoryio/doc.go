// Package inventoryio reads and writes forest inventories as CSV tree lists
// and as JSON documents.
//
// A CSV file holds one row per tree. Plot attributes (size, slope, aspect and
// elevation) repeat on every row and are taken from the first row seen for a
// plot. Columns are matched by header name in any order.
package inventoryio

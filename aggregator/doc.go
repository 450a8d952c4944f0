// Package aggregator reduces hourly Fremont Bridge counter records into the
// statistics shown on the bike-counter page.
//
// # Busiest day
//
// Records are grouped by UTC day-of-month in input order. A group is only
// compared against the running best when the next group starts, so the last
// group of any input is never a busiest-day candidate. A single-day input
// therefore reports no busiest day. The reported date is midnight UTC of the
// finished group. Leaving the last group out is how the page has always
// behaved and is kept until the product decides otherwise.
//
// # Malformed records
//
// A record whose northbound count, southbound count or date cannot be parsed
// is excluded from every aggregate. It does not count as zero and does not
// close a day group.
package aggregator

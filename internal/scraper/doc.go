// Package scraper fetches tournament lists and statistics tables from player
// scorecard pages.
//
// Tournament names are read with a colly collector, which can cache responses
// on disk between runs. The statistics table itself is only rendered after the
// page's tournament dropdown changes, so it is read through a headless Chrome
// driven by chromedp. Both return raw page content; turning it into records is
// the job of the performance package.
package scraper

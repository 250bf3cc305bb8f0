package domain

var basicDefaults = []Bookmark{
	{ID: "1", Name: "Gmail", URL: "https://mail.google.com", Category: "mail"},
	{ID: "2", Name: "Outlook", URL: "https://outlook.live.com", Category: "mail"},
	{ID: "3", Name: "GitHub", URL: "https://github.com", Category: "tools"},
	{ID: "4", Name: "Replit", URL: "https://replit.com", Category: "tools"},
	{ID: "5", Name: "Google Drive", URL: "https://drive.google.com", Category: "drive"},
	{ID: "6", Name: "Dropbox", URL: "https://www.dropbox.com", Category: "drive"},
	{ID: "7", Name: "Google Account", URL: "https://myaccount.google.com", Category: "account"},
	{ID: "8", Name: "Twitter", URL: "https://twitter.com", Category: "account"},
}

var extendedDefaults = []Bookmark{
	{ID: "1", Name: "Gmail", URL: "https://mail.google.com", Category: "mail"},
	{ID: "2", Name: "Replit", URL: "https://replit.com", Category: "tools"},
	{ID: "3", Name: "Google Drive", URL: "https://drive.google.com", Category: "drive"},
	{ID: "4", Name: "Google Account", URL: "https://myaccount.google.com", Category: "account"},
	{ID: "5", Name: "Twitter", URL: "https://twitter.com", Category: "social"},
	{ID: "6", Name: "YouTube", URL: "https://www.youtube.com", Category: "media"},
	{ID: "7", Name: "Hacker News", URL: "https://news.ycombinator.com", Category: "news"},
	{ID: "8", Name: "GitHub", URL: "https://github.com", Category: "dev"},
}

// DefaultBookmarks returns a fresh copy of the seed collection for an edition.
func DefaultBookmarks(e Edition) []Bookmark {
	src := basicDefaults
	if e == EditionExtended {
		src = extendedDefaults
	}
	out := make([]Bookmark, len(src))
	copy(out, src)
	return out
}

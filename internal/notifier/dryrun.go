package notifier

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/akyker20/pga-scraper/internal/performance"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to w
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{w: w}
}

// Notify prints the posts that would be sent
func (n *DryRunNotifier) Notify(_ context.Context, perfs []*performance.Performance) error {
	for i, p := range perfs {
		post := FormatPost(p)
		fmt.Fprintf(n.w, "--- Post %d/%d ---\n", i+1, len(perfs))
		fmt.Fprintln(n.w, post)
		fmt.Fprintf(n.w, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(post))
	}
	return nil
}

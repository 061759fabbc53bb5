package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/akyker20/pga-scraper/internal/logger"
	"github.com/akyker20/pga-scraper/internal/performance"
)

// ErrMissingCredentials is returned when any Twitter credential is empty
var ErrMissingCredentials = errors.New("missing required Twitter credentials")

// PostInterval is waited between two posts
const PostInterval = 2 * time.Second

// Credentials are the OAuth1 keys of the posting account
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

func (c Credentials) complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// TwitterNotifier posts records to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a Twitter notifier from creds
func NewTwitterNotifier(creds Credentials) (*TwitterNotifier, error) {
	if !creds.complete() {
		return nil, ErrMissingCredentials
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{client: twitter.NewClient(httpClient)}, nil
}

// Notify posts one tweet per record, pausing PostInterval between tweets
func (n *TwitterNotifier) Notify(ctx context.Context, perfs []*performance.Performance) error {
	for i, p := range perfs {
		if _, _, err := n.client.Statuses.Update(FormatPost(p), nil); err != nil {
			return fmt.Errorf("failed to post tweet for %s, %s: %w", p.PlayerName, p.TourneyName, err)
		}
		logger.Debug("Posted tweet", logger.Fields{"player": p.PlayerName, "tournament": p.TourneyName})

		if i < len(perfs)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(PostInterval):
			}
		}
	}
	return nil
}

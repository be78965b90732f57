package main

import (
	"fmt"

	"github.com/slack-go/slack"
)

// PostDigest posts a rendered digest to a Slack channel. The digest already
// carries mrkdwn-compatible formatting (asterisk bold, bullet lines).
func PostDigest(api *slack.Client, channelID, digest string) error {
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(digest, false))
	if err != nil {
		return fmt.Errorf("error posting digest to %s: %v", channelID, err)
	}
	return nil
}

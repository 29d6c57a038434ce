package alert

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// Notifier sends operator alerts to a Discord channel. Ledger corruption
// requires a human to look at the order, so those errors page instead of
// just logging.
type Notifier struct {
	discord   *discordgo.Session
	channelID string
}

func NewNotifier(config util.Config) (*Notifier, error) {
	discord, err := discordgo.New("Bot " + config.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	return &Notifier{
		discord:   discord,
		channelID: config.DiscordChannelID,
	}, nil
}

// LedgerError reports a fatal ledger error for an order.
func (n *Notifier) LedgerError(orderNumber string, err error) {
	message := fmt.Sprintf(":rotating_light: Ledger error on order %s: %v", orderNumber, err)
	if _, sendErr := n.discord.ChannelMessageSend(n.channelID, message); sendErr != nil {
		log.Error().Err(sendErr).Str("order_number", orderNumber).Msg("failed to send ledger alert")
	}
}

// System reports a non-order operational problem.
func (n *Notifier) System(message string) {
	if _, err := n.discord.ChannelMessageSend(n.channelID, message); err != nil {
		log.Error().Err(err).Msg("failed to send system alert")
	}
}

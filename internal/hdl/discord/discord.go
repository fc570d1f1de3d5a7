package discord

import (
	"context"
	"strings"

	"github.com/HiSumm3rs/Bot-IDBL/internal/config"
	"github.com/HiSumm3rs/Bot-IDBL/internal/ctrl"
	"github.com/HiSumm3rs/Bot-IDBL/internal/dto"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// UserResolver looks up the display name behind a platform user id.
// Resolution may fail per id (unknown or deleted accounts).
type UserResolver interface {
	ResolveDisplayName(ctx context.Context, id string) (string, error)
}

// Command is one inbound chat command with the sender's identity and the raw
// argument text, already stripped of the prefix.
type Command struct {
	Name     string
	Args     []string
	RawArgs  string
	UserID   string
	Username string
	IsAdmin  bool
}

type handlerFunc func(ctx context.Context, cmd *Command) *dto.Payload

type Handler struct {
	sess     *discordgo.Session
	ctrl     ctrl.AppCtrl
	resolver UserResolver
	prefix   string
	routes   map[string]handlerFunc
}

func New(ctrl ctrl.AppCtrl, conf *config.Config) (*Handler, error) {
	sess, err := discordgo.New("Bot " + conf.Token)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		sess:   sess,
		ctrl:   ctrl,
		prefix: conf.Server.Prefix,
	}
	h.resolver = &sessionResolver{sess: sess}
	h.registerRoutes()
	return h, nil
}

func (h *Handler) Start() error {
	h.sess.AddHandler(h.onReady)
	h.sess.AddHandler(h.onMessageCreate)
	h.sess.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return h.sess.Open()
}

func (h *Handler) Close(_ context.Context) error {
	return h.sess.Close()
}

func (h *Handler) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	zap.L().Info("Bot is online", zap.String("username", r.User.Username))
}

func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, h.prefix) {
		return
	}

	text := strings.TrimPrefix(m.Content, h.prefix)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	res := h.Dispatch(
		context.Background(), &Command{
			Name:     fields[0],
			Args:     fields[1:],
			RawArgs:  strings.TrimSpace(strings.TrimPrefix(text, fields[0])),
			UserID:   m.Author.ID,
			Username: m.Author.Username,
			IsAdmin:  h.isAdmin(s, m),
		},
	)
	if res == nil {
		return
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, toEmbed(res)); err != nil {
		zap.L().Warn(
			"Failed to send response",
			zap.String("channel", m.ChannelID), zap.Error(err),
		)
	}
}

func (h *Handler) isAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := s.State.MessagePermissions(m.Message)
	if err != nil {
		perms, err = s.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			return false
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func toEmbed(p *dto.Payload) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Body,
		Color:       p.Color,
	}
	for _, f := range p.Fields {
		e.Fields = append(
			e.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			},
		)
	}
	return e
}

type sessionResolver struct {
	sess *discordgo.Session
}

func (r *sessionResolver) ResolveDisplayName(_ context.Context, id string) (string, error) {
	u, err := r.sess.User(id)
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"truckbot/models"
	"truckbot/services"

	"github.com/bwmarrin/discordgo"
)

// DiscordHandler is the interaction boundary: every slash command and button
// press lands here, gets mapped to exactly one service call, and renders a
// response. Handlers hold no state of their own; everything lives in the
// database.
type DiscordHandler struct {
	session *discordgo.Session
	appID   string

	catalog     *services.CatalogService
	players     *services.PlayerService
	jobs        *services.JobService
	driving     *services.DrivingService
	companies   *services.CompanyService
	gambling    *services.GamblingService
	leaderboard *services.LeaderboardService
	hub         *services.Hub
}

func NewDiscordHandler(
	session *discordgo.Session,
	appID string,
	catalog *services.CatalogService,
	players *services.PlayerService,
	jobs *services.JobService,
	driving *services.DrivingService,
	companies *services.CompanyService,
	gambling *services.GamblingService,
	leaderboard *services.LeaderboardService,
	hub *services.Hub,
) *DiscordHandler {
	return &DiscordHandler{
		session:     session,
		appID:       appID,
		catalog:     catalog,
		players:     players,
		jobs:        jobs,
		driving:     driving,
		companies:   companies,
		gambling:    gambling,
		leaderboard: leaderboard,
		hub:         hub,
	}
}

func driveCustomID(action, playerID string) string {
	return fmt.Sprintf("drive:%s:%s", action, playerID)
}

// errorMessage is the outermost error mapper: every sentinel from the
// services becomes a user-facing line here. Unknown errors are logged and
// answered generically.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrPlayerNotRegistered):
		return "You are not registered yet. Use /register to start trucking."
	case errors.Is(err, models.ErrPlayerAlreadyRegistered):
		return "You already have a trucking license."
	case errors.Is(err, models.ErrPlayerBlacklisted):
		return "You are banned from the game."
	case errors.Is(err, models.ErrNotEnoughMoney):
		return "You can't afford that."
	case errors.Is(err, models.ErrWrongPlayer):
		return "These buttons belong to someone else's truck."
	case errors.Is(err, models.ErrNotDriving):
		return "You are not driving. Use /drive to hit the road."
	case errors.Is(err, models.ErrNoActiveJob):
		return "You don't have a job right now. Use /job new to get one."
	case errors.Is(err, models.ErrJobAlreadyActive):
		return "Finish your current job first."
	case errors.Is(err, models.ErrPlaceNotFound):
		return "No such place."
	case errors.Is(err, models.ErrItemNotFound):
		return "No such item."
	case errors.Is(err, models.ErrTruckNotFound):
		return "No such truck. Use /truck list to see the catalog."
	case errors.Is(err, models.ErrCompanyNotFound):
		return "No such company."
	case errors.Is(err, models.ErrCompanyNameTaken):
		return "A company with that name already exists."
	case errors.Is(err, models.ErrAlreadyInCompany):
		return "Already employed — leave the current company first."
	case errors.Is(err, models.ErrNotInCompany):
		return "That player is not in your company."
	case errors.Is(err, models.ErrNotFounder):
		return "Only the company founder can do that."
	case errors.Is(err, models.ErrCannotFireSelf):
		return "You can't fire yourself."
	case errors.Is(err, models.ErrFounderCannotLeave):
		return "Founders can't walk away from their own company."
	case errors.Is(err, models.ErrPositionOccupied):
		return "This spot is taken. Park somewhere empty to found a company."
	case errors.Is(err, models.ErrNotAtGasStation):
		return "There is no gas station here."
	default:
		log.Printf("Unhandled interaction error: %v", err)
		return "Something went wrong, try again later."
	}
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func (h *DiscordHandler) respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

func (h *DiscordHandler) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

func (h *DiscordHandler) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	h.respondText(s, i, errorMessage(err), true)
}

// HandleInteraction is the single dispatch point registered on the session.
func (h *DiscordHandler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(s, i)
	}
}

func (h *DiscordHandler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	user := interactionUser(i)
	if user == nil {
		return
	}

	switch data.Name {
	case "register":
		h.handleRegister(s, i, user)
	case "profile":
		h.handleProfile(s, i, user, data.Options)
	case "drive":
		h.handleDrive(s, i, user)
	case "stop":
		h.handleStop(s, i, user)
	case "load":
		h.handleLoad(s, i, user, data.Options)
	case "unload":
		h.handleUnload(s, i, user, data.Options)
	case "job":
		h.handleJob(s, i, user, data.Options)
	case "truck":
		h.handleTruck(s, i, user, data.Options)
	case "company":
		h.handleCompany(s, i, user, data.Options)
	case "coinflip":
		h.handleCoinflip(s, i, user, data.Options)
	case "slots":
		h.handleSlots(s, i, user, data.Options)
	case "top":
		h.handleTop(s, i, data.Options)
	case "info":
		h.handleInfo(s, i)
	default:
		h.respondText(s, i, "Unknown command.", true)
	}
}

func (h *DiscordHandler) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] != "drive" {
		return
	}
	action, ownerID := parts[1], parts[2]

	user := interactionUser(i)
	if user == nil {
		return
	}
	if user.ID != ownerID {
		h.respondError(s, i, models.ErrWrongPlayer)
		return
	}

	player, err := h.players.Get(ownerID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	session, err := h.driving.GetSession(ownerID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	var messageID string
	if i.Message != nil {
		messageID = i.Message.ID
	}
	if err := h.driving.CheckOwner(session, user.ID, messageID); err != nil {
		h.respondError(s, i, err)
		return
	}

	switch action {
	case "left", "up", "down", "right":
		h.handleMove(s, i, player, session, models.Direction(action))
	case "load":
		h.handleDriveLoad(s, i, player, session)
	case "unload":
		h.handleDriveUnload(s, i, player, session)
	case "refuel":
		h.handleDriveRefuel(s, i, player, session)
	case "stop":
		h.handleDriveStop(s, i, player)
	}
}

// CloseDriveMessage strips the controls from a drive message whose session
// is gone. Fire-and-forget: failures are logged, never retried. Implements
// services.SessionCloser for the sweeper.
func (h *DiscordHandler) CloseDriveMessage(target services.ResponseTarget, reason string) {
	empty := []discordgo.MessageComponent{}
	content := reason

	if target.Token != "" {
		_, err := h.session.WebhookMessageEdit(h.appID, target.Token, "@original", &discordgo.WebhookEdit{
			Content:    &content,
			Components: &empty,
		})
		if err == nil {
			return
		}
		log.Printf("Webhook edit failed, falling back to channel edit: %v", err)
	}

	if target.ChannelID != "" && target.MessageID != "" {
		_, err := h.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    target.ChannelID,
			ID:         target.MessageID,
			Content:    &content,
			Components: &empty,
		})
		if err != nil {
			log.Printf("Failed to close drive message %s: %v", target.MessageID, err)
		}
	}
}

package handlers

import (
	"fmt"
	"log"

	"truckbot/models"

	"github.com/bwmarrin/discordgo"
)

// updateDriveView re-renders the drive message in place after a button press.
func (h *DiscordHandler) updateDriveView(s *discordgo.Session, i *discordgo.InteractionCreate, player *models.Player, note string) {
	truck, err := h.players.Truck(player)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	companies, _ := h.companies.Companies()
	job, _ := h.jobs.GetByPlayer(player.ID)

	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{driveEmbed(h.catalog, companies, player, truck, job)},
		Components: driveComponents(h.catalog, player, truck),
	}
	if note != "" {
		data.Content = note
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
	if err != nil {
		log.Printf("Failed to update drive view: %v", err)
	}
}

// endDriveView replaces the drive message with a final note and no controls.
func (h *DiscordHandler) endDriveView(s *discordgo.Session, i *discordgo.InteractionCreate, note string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    note,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Printf("Failed to end drive view: %v", err)
	}
}

func (h *DiscordHandler) handleMove(s *discordgo.Session, i *discordgo.InteractionCreate, player *models.Player, session *models.DrivingSession, dir models.Direction) {
	result, err := h.driving.Move(player, session, dir)
	if err != nil {
		h.respondError(s, i, err)
		return
	}

	if h.hub != nil {
		h.hub.PlayerMoved(player)
	}

	if result.FuelExhausted {
		note := fmt.Sprintf(
			"⛽ You ran out of gas! A tow truck hauled you back to the truck stop and charged $%d. The tank is full again.",
			result.TowFeePaid)
		h.endDriveView(s, i, note)
		return
	}

	h.updateDriveView(s, i, player, "")
}

func (h *DiscordHandler) handleDriveLoad(s *discordgo.Session, i *discordgo.InteractionCreate, player *models.Player, session *models.DrivingSession) {
	place, ok := h.catalog.PlaceAt(player.Pos())
	if !ok || place.ProducedItem == "" {
		h.respondError(s, i, models.ErrItemNotFound)
		return
	}
	line, err := h.doLoad(player, place.ProducedItem)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	if err := h.driving.Touch(session); err != nil {
		log.Printf("Failed to touch session %d: %v", session.ID, err)
	}
	h.updateDriveView(s, i, player, line)
}

// pickUnloadItem decides what the unload button drops: the job cargo at its
// destination wins, then whatever the current place accepts, then the first
// item on the truck.
func (h *DiscordHandler) pickUnloadItem(player *models.Player) (string, bool) {
	if len(player.Loaded) == 0 {
		return "", false
	}

	has := func(name string) bool {
		for _, loaded := range player.Loaded {
			if loaded == name {
				return true
			}
		}
		return false
	}

	if job, err := h.jobs.GetByPlayer(player.ID); err == nil && job.State == models.JobLoaded {
		origin, oerr := h.catalog.PlaceByName(job.Origin)
		dest, derr := h.catalog.PlaceByName(job.Destination)
		if oerr == nil && derr == nil && player.Pos() == dest.Position && has(origin.ProducedItem) {
			return origin.ProducedItem, true
		}
	}
	if place, ok := h.catalog.PlaceAt(player.Pos()); ok && place.AcceptedItem != "" && has(place.AcceptedItem) {
		return place.AcceptedItem, true
	}
	return player.Loaded[0], true
}

func (h *DiscordHandler) handleDriveUnload(s *discordgo.Session, i *discordgo.InteractionCreate, player *models.Player, session *models.DrivingSession) {
	item, ok := h.pickUnloadItem(player)
	if !ok {
		h.respondError(s, i, models.ErrItemNotFound)
		return
	}
	line, err := h.doUnload(player, item)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	if err := h.driving.Touch(session); err != nil {
		log.Printf("Failed to touch session %d: %v", session.ID, err)
	}
	h.updateDriveView(s, i, player, line)
}

func (h *DiscordHandler) handleDriveRefuel(s *discordgo.Session, i *discordgo.InteractionCreate, player *models.Player, session *models.DrivingSession) {
	units, cost, err := h.driving.Refuel(player)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	if err := h.driving.Touch(session); err != nil {
		log.Printf("Failed to touch session %d: %v", session.ID, err)
	}
	note := "Tank is already full."
	if units > 0 {
		note = fmt.Sprintf("⛽ Bought %d gas for $%d.", units, cost)
	}
	h.updateDriveView(s, i, player, note)
}

func (h *DiscordHandler) handleDriveStop(s *discordgo.Session, i *discordgo.InteractionCreate, player *models.Player) {
	if err := h.driving.Stop(player.ID); err != nil {
		h.respondError(s, i, err)
		return
	}
	h.endDriveView(s, i, "You parked your truck. See you on the road!")
}

package handlers

import (
	"fmt"
	"strings"

	"truckbot/models"
	"truckbot/services"

	"github.com/bwmarrin/discordgo"
)

const (
	embedColor    = 0xC97E2B // truck-rust orange
	minimapRadius = 3        // 7x7 view
	emojiGrass    = "🟩"
	emojiOffMap   = "⬛"
)

// renderMinimap draws the 7x7 emoji grid centered on the player. Catalog
// places and company HQs overlay the terrain; the player's truck sits in the
// middle. Rows are rendered top-down, so the highest y comes first.
func renderMinimap(catalog *services.CatalogService, companies []models.Company, player *models.Player, truck models.Truck) string {
	hqByPos := make(map[int32]models.Company, len(companies))
	for _, c := range companies {
		hqByPos[c.Position] = c
	}

	center := player.Pos()
	var sb strings.Builder
	for dy := minimapRadius; dy >= -minimapRadius; dy-- {
		for dx := -minimapRadius; dx <= minimapRadius; dx++ {
			pos := models.Position{X: center.X + int16(dx), Y: center.Y + int16(dy)}
			switch {
			case dx == 0 && dy == 0:
				sb.WriteString(truck.Emoji)
			case !pos.InBounds():
				sb.WriteString(emojiOffMap)
			default:
				if place, ok := catalog.PlaceAt(pos); ok {
					sb.WriteString(place.Emoji)
				} else if hq, ok := hqByPos[pos.Encode()]; ok {
					sb.WriteString(hq.Logo)
				} else {
					sb.WriteString(emojiGrass)
				}
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func placeLine(catalog *services.CatalogService, pos models.Position) string {
	if place, ok := catalog.PlaceAt(pos); ok {
		return fmt.Sprintf("%s %s", place.Emoji, place.Name)
	}
	return "Open road"
}

// driveEmbed is the main drive view: minimap, location and truck status.
func driveEmbed(catalog *services.CatalogService, companies []models.Company, player *models.Player, truck models.Truck, job *models.Job) *discordgo.MessageEmbed {
	pos := player.Pos()
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s driving %s", player.Name, truck.Name),
		Description: renderMinimap(catalog, companies, player, truck),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Position", Value: fmt.Sprintf("(%d, %d) — %s", pos.X, pos.Y, placeLine(catalog, pos)), Inline: true},
			{Name: "Gas", Value: fmt.Sprintf("⛽ %d / %d", player.Gas, truck.GasCapacity), Inline: true},
		},
	}
	if len(player.Loaded) > 0 {
		loaded := make([]string, 0, len(player.Loaded))
		for _, item := range player.Loaded {
			if def, err := catalog.ItemByName(item); err == nil {
				loaded = append(loaded, def.Emoji+" "+def.Name)
			} else {
				loaded = append(loaded, item)
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Cargo (%d/%d)", len(player.Loaded), truck.LoadingCapacity), Value: strings.Join(loaded, ", "),
		})
	}
	if job != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Job", Value: jobLine(catalog, job),
		})
	}
	return embed
}

func jobLine(catalog *services.CatalogService, job *models.Job) string {
	state := "pick up the cargo"
	if job.State == models.JobLoaded {
		state = "deliver the cargo"
	}
	origin, _ := catalog.PlaceByName(job.Origin)
	dest, _ := catalog.PlaceByName(job.Destination)
	return fmt.Sprintf("%s %s → %s %s · $%d · next: %s",
		origin.Emoji, job.Origin, dest.Emoji, job.Destination, job.Reward, state)
}

// driveComponents builds the button rows. Directional buttons are disabled
// at the map border (the affordance set), the action buttons follow the
// current cell and cargo state.
func driveComponents(catalog *services.CatalogService, player *models.Player, truck models.Truck) []discordgo.MessageComponent {
	legal := make(map[models.Direction]bool, 4)
	for _, dir := range player.Pos().LegalDirections() {
		legal[dir] = true
	}

	arrow := map[models.Direction]string{
		models.DirectionLeft:  "⬅️",
		models.DirectionUp:    "⬆️",
		models.DirectionDown:  "⬇️",
		models.DirectionRight: "➡️",
	}

	var directions []discordgo.MessageComponent
	for _, dir := range models.AllDirections {
		directions = append(directions, discordgo.Button{
			Style:    discordgo.PrimaryButton,
			Emoji:    &discordgo.ComponentEmoji{Name: arrow[dir]},
			CustomID: driveCustomID(string(dir), player.ID),
			Disabled: !legal[dir],
		})
	}

	place, atPlace := catalog.PlaceAt(player.Pos())
	canLoad := atPlace && place.ProducedItem != "" && len(player.Loaded) < truck.LoadingCapacity
	canUnload := len(player.Loaded) > 0
	canRefuel := atPlace && place.AcceptedItem == "gas" && player.Gas < truck.GasCapacity

	actions := []discordgo.MessageComponent{
		discordgo.Button{
			Label: "Load", Style: discordgo.SecondaryButton,
			Emoji:    &discordgo.ComponentEmoji{Name: "📦"},
			CustomID: driveCustomID("load", player.ID),
			Disabled: !canLoad,
		},
		discordgo.Button{
			Label: "Unload", Style: discordgo.SecondaryButton,
			Emoji:    &discordgo.ComponentEmoji{Name: "📤"},
			CustomID: driveCustomID("unload", player.ID),
			Disabled: !canUnload,
		},
		discordgo.Button{
			Label: "Refuel", Style: discordgo.SecondaryButton,
			Emoji:    &discordgo.ComponentEmoji{Name: "⛽"},
			CustomID: driveCustomID("refuel", player.ID),
			Disabled: !canRefuel,
		},
		discordgo.Button{
			Label: "Stop", Style: discordgo.DangerButton,
			Emoji:    &discordgo.ComponentEmoji{Name: "🛑"},
			CustomID: driveCustomID("stop", player.ID),
		},
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: directions},
		discordgo.ActionsRow{Components: actions},
	}
}

func profileEmbed(catalog *services.CatalogService, player *models.Player, truck models.Truck, job *models.Job) *discordgo.MessageEmbed {
	pos := player.Pos()
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %s", truck.Emoji, player.Name),
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: fmt.Sprintf("%d (%d/%d xp)", player.Level, player.XP, player.NextLevelXP()), Inline: true},
			{Name: "Money", Value: fmt.Sprintf("$%d", player.Money), Inline: true},
			{Name: "Miles", Value: fmt.Sprintf("%d lifetime · %d on this truck", player.Miles, player.TruckMiles), Inline: true},
			{Name: "Truck", Value: truck.Name, Inline: true},
			{Name: "Position", Value: fmt.Sprintf("(%d, %d) — %s", pos.X, pos.Y, placeLine(catalog, pos)), Inline: true},
		},
	}
	if player.Company != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Company", Value: player.Company, Inline: true})
	}
	if job != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Job", Value: jobLine(catalog, job)})
	}
	return embed
}

func truckEmbed(truck models.Truck) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", truck.Emoji, truck.Name),
		Description: truck.Description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Price", Value: fmt.Sprintf("$%d", truck.Price), Inline: true},
			{Name: "Gas", Value: fmt.Sprintf("%d tank · %d per mile", truck.GasCapacity, truck.GasConsumption), Inline: true},
			{Name: "Loading capacity", Value: fmt.Sprintf("%d items", truck.LoadingCapacity), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Buy it with /truck buy id:%d", truck.ID)},
	}
}

func companyEmbed(company *models.Company, members []models.Player) *discordgo.MessageEmbed {
	hq := company.HQ()
	names := make([]string, 0, len(members))
	for _, m := range members {
		name := m.Name
		if m.ID == company.Founder {
			name += " 👑"
		}
		names = append(names, name)
	}
	memberList := "nobody yet"
	if len(names) > 0 {
		memberList = strings.Join(names, ", ")
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s %s", company.Logo, company.Name),
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Net worth", Value: fmt.Sprintf("$%d", company.NetWorth), Inline: true},
			{Name: "Headquarters", Value: fmt.Sprintf("(%d, %d)", hq.X, hq.Y), Inline: true},
			{Name: fmt.Sprintf("Members (%d)", len(members)), Value: memberList},
		},
	}
}

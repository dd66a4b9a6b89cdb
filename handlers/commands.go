package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"truckbot/models"
	"truckbot/services"

	"github.com/bwmarrin/discordgo"
)

// minijobPayPerUnit is the one-shot payout for dropping an item at a place
// that accepts it, per unit, scaled by (level+1). Independent of the Job
// lifecycle.
const minijobPayPerUnit = 60

var startTime = time.Now()

var commandDefinitions = []*discordgo.ApplicationCommand{
	{Name: "register", Description: "Get your trucking license and a starter van"},
	{
		Name: "profile", Description: "Show a player's profile",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Player to look up (defaults to you)"},
		},
	},
	{Name: "drive", Description: "Start driving your truck"},
	{Name: "stop", Description: "Park your truck and end the drive"},
	{
		Name: "load", Description: "Load an item produced at your current location",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Item to load", Required: true},
		},
	},
	{
		Name: "unload", Description: "Unload every unit of an item from your truck",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Item to unload", Required: true},
		},
	},
	{
		Name: "job", Description: "Show or get a delivery job",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show your current job"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "new", Description: "Get a new delivery job"},
		},
	},
	{
		Name: "truck", Description: "Browse and buy trucks",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List all trucks"},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show a truck",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Truck id", Required: true},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "buy", Description: "Buy a truck",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Truck id", Required: true},
				},
			},
		},
	},
	{
		Name: "company", Description: "Manage your company",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "found", Description: "Found a company on your current map cell",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Company name", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "logo", Description: "Logo emoji"},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show a company",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Company name (defaults to yours)"},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "hire", Description: "Hire a player (founder only)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Player to hire", Required: true},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand, Name: "fire", Description: "Fire a member (founder only)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to fire", Required: true},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "leave", Description: "Leave your company"},
		},
	},
	{
		Name: "coinflip", Description: "Flip a coin for money",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionString, Name: "side", Description: "Your call", Required: true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "heads", Value: "heads"},
					{Name: "tails", Value: "tails"},
				},
			},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Stake", Required: true},
		},
	},
	{
		Name: "slots", Description: "Spin the slot machine",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Stake", Required: true},
		},
	},
	{
		Name: "top", Description: "Show a leaderboard",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionString, Name: "key", Description: "Which leaderboard", Required: true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "money", Value: "money"},
					{Name: "miles", Value: "miles"},
					{Name: "level", Value: "level"},
				},
			},
		},
	},
	{Name: "info", Description: "Show bot statistics"},
}

// RegisterCommands overwrites the application's slash commands. With a guild
// id the commands appear instantly (useful in development); globally they
// take up to an hour to propagate.
func (h *DiscordHandler) RegisterCommands(guildID string) error {
	_, err := h.session.ApplicationCommandBulkOverwrite(h.appID, guildID, commandDefinitions)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	log.Printf("Registered %d application commands", len(commandDefinitions))
	return nil
}

type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

func mapOptions(options []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	m := make(optionMap, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func (h *DiscordHandler) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) {
	player, err := h.players.Register(user.ID, user.Username)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	truck, _ := h.players.Truck(player)
	h.respondText(s, i, fmt.Sprintf(
		"Welcome to the road, %s! You got a %s %s, $%d and a full tank. Use /drive to get going.",
		player.Name, truck.Emoji, truck.Name, player.Money), false)
}

func (h *DiscordHandler) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	targetID := user.ID
	if opt, ok := mapOptions(options)["user"]; ok {
		targetID = opt.UserValue(s).ID
	}

	player, err := h.players.Get(targetID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	truck, err := h.players.Truck(player)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	job, _ := h.jobs.GetByPlayer(player.ID)
	h.respondEmbed(s, i, profileEmbed(h.catalog, player, truck, job))
}

func (h *DiscordHandler) handleDrive(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) {
	player, err := h.players.Get(user.ID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	truck, err := h.players.Truck(player)
	if err != nil {
		h.respondError(s, i, err)
		return
	}

	_, stale, err := h.driving.StartDrive(player, services.ResponseTarget{
		AppID:     h.appID,
		Token:     i.Token,
		ChannelID: i.ChannelID,
	})
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	if stale != nil {
		go h.CloseDriveMessage(*stale, "You started driving somewhere else.")
	}

	companies, _ := h.companies.Companies()
	job, _ := h.jobs.GetByPlayer(player.ID)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{driveEmbed(h.catalog, companies, player, truck, job)},
			Components: driveComponents(h.catalog, player, truck),
		},
	})
	if err != nil {
		log.Printf("Failed to send drive view: %v", err)
		return
	}

	// remember the message id so stale buttons can be told apart later
	if msg, err := s.InteractionResponse(i.Interaction); err == nil {
		if session, err := h.driving.GetSession(player.ID); err == nil {
			if err := h.driving.AttachMessage(session, msg.ID); err != nil {
				log.Printf("Failed to attach drive message id: %v", err)
			}
		}
	}
}

func (h *DiscordHandler) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) {
	session, err := h.driving.GetSession(user.ID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	if err := h.driving.Stop(user.ID); err != nil {
		h.respondError(s, i, err)
		return
	}
	go h.CloseDriveMessage(services.ResponseTarget{
		AppID: h.appID, Token: session.Token,
		ChannelID: session.ChannelID, MessageID: session.MessageID,
	}, "You parked your truck.")
	h.respondText(s, i, "Truck parked. See you on the road!", false)
}

// doLoad is the shared load path for the slash command and the drive button:
// the item must be produced at the current place and the truck must have
// room; the job is then told about the pickup.
func (h *DiscordHandler) doLoad(player *models.Player, itemName string) (string, error) {
	place, atPlace := h.catalog.PlaceAt(player.Pos())
	if !atPlace || !strings.EqualFold(place.ProducedItem, itemName) {
		return "", models.ErrItemNotFound
	}
	truck, err := h.players.Truck(player)
	if err != nil {
		return "", err
	}
	if len(player.Loaded) >= truck.LoadingCapacity {
		return fmt.Sprintf("Your %s is full (%d/%d).", truck.Name, len(player.Loaded), truck.LoadingCapacity), nil
	}

	if err := h.players.LoadItem(player, place.ProducedItem); err != nil {
		return "", err
	}
	item, _ := h.catalog.ItemByName(place.ProducedItem)
	line := fmt.Sprintf("Loaded %s %s at %s.", item.Emoji, item.Name, place.Name)

	job, err := h.jobs.NotifyLoad(player, place.ProducedItem)
	if err != nil {
		return "", err
	}
	if job != nil && job.State == models.JobLoaded {
		dest, _ := h.catalog.PlaceByName(job.Destination)
		line += fmt.Sprintf(" Cargo picked up — deliver it to %s %s!", dest.Emoji, dest.Name)
	}
	return line, nil
}

// doUnload is the shared unload path: every unit of the item comes off the
// truck, then the job and the minijob payout are evaluated.
func (h *DiscordHandler) doUnload(player *models.Player, itemName string) (string, error) {
	item, err := h.catalog.ItemByName(itemName)
	if err != nil {
		return "", err
	}
	removed, err := h.players.UnloadItem(player, item.Name)
	if err != nil {
		return "", err
	}
	line := fmt.Sprintf("Unloaded %d× %s %s.", removed, item.Emoji, item.Name)

	completion, err := h.jobs.NotifyUnload(player, item.Name)
	if err != nil {
		return "", err
	}
	if completion != nil {
		line += fmt.Sprintf(" Job done! +$%d, +%d xp", completion.Job.Reward, completion.XPGained)
		if completion.LevelsGained > 0 {
			line += fmt.Sprintf(" — level up! You are now level %d", player.Level)
		}
		if completion.CompanyCut > 0 {
			line += fmt.Sprintf(" ($%d to %s)", completion.CompanyCut, player.Company)
		}
		line += "."
		if h.hub != nil {
			h.hub.JobCompleted(player, completion)
		}
		return line, nil
	}

	// minijob: places pay on the spot for items they accept
	if place, ok := h.catalog.PlaceAt(player.Pos()); ok && place.AcceptedItem == item.Name {
		pay := int64(removed) * minijobPayPerUnit * int64(player.Level+1)
		if err := h.players.AddMoney(player, pay); err != nil {
			return "", err
		}
		line += fmt.Sprintf(" %s pays $%d for the delivery.", place.Name, pay)
	}
	return line, nil
}

func (h *DiscordHandler) handleLoad(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	player, err := h.players.Get(user.ID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	opts := mapOptions(options)
	line, err := h.doLoad(player, opts["item"].StringValue())
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	h.respondText(s, i, line, false)
}

func (h *DiscordHandler) handleUnload(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	player, err := h.players.Get(user.ID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	opts := mapOptions(options)
	line, err := h.doUnload(player, opts["item"].StringValue())
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	h.respondText(s, i, line, false)
}

func (h *DiscordHandler) handleJob(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	player, err := h.players.Get(user.ID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}

	sub := "show"
	if len(options) > 0 {
		sub = options[0].Name
	}

	switch sub {
	case "new":
		job, err := h.jobs.Generate(player)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		origin, _ := h.catalog.PlaceByName(job.Origin)
		item, _ := h.catalog.ItemByName(origin.ProducedItem)
		h.respondText(s, i, fmt.Sprintf("New job: haul %s %s from %s to %s for $%d. Drive to %s and load up!",
			item.Emoji, item.Name, job.Origin, job.Destination, job.Reward, job.Origin), false)
	default:
		job, err := h.jobs.GetByPlayer(player.ID)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		h.respondText(s, i, jobLine(h.catalog, job), false)
	}
}

func (h *DiscordHandler) handleTruck(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		return
	}
	sub := options[0]

	switch sub.Name {
	case "list":
		var lines []string
		for _, truck := range h.catalog.Trucks() {
			lines = append(lines, fmt.Sprintf("`%d` %s **%s** — $%d", truck.ID, truck.Emoji, truck.Name, truck.Price))
		}
		h.respondEmbed(s, i, &discordgo.MessageEmbed{
			Title: "Truck catalog", Description: strings.Join(lines, "\n"), Color: embedColor,
		})
	case "show":
		truck, err := h.catalog.TruckByID(int(mapOptions(sub.Options)["id"].IntValue()))
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		h.respondEmbed(s, i, truckEmbed(truck))
	case "buy":
		player, err := h.players.Get(user.ID)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		truck, err := h.players.BuyTruck(player, int(mapOptions(sub.Options)["id"].IntValue()))
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		h.respondText(s, i, fmt.Sprintf("Congratulations on your new %s %s! Cargo bed is empty and the trip meter starts at zero.",
			truck.Emoji, truck.Name), false)
	}
}

func (h *DiscordHandler) handleCompany(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(options) == 0 {
		return
	}
	sub := options[0]

	player, err := h.players.Get(user.ID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}

	switch sub.Name {
	case "found":
		opts := mapOptions(sub.Options)
		logo := ""
		if opt, ok := opts["logo"]; ok {
			logo = opt.StringValue()
		}
		company, err := h.companies.Found(player, opts["name"].StringValue(), logo)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		if h.hub != nil {
			h.hub.CompanyFounded(company)
		}
		hq := company.HQ()
		h.respondText(s, i, fmt.Sprintf("%s %s founded! Your headquarters now sits at (%d, %d).",
			company.Logo, company.Name, hq.X, hq.Y), false)
	case "show":
		name := player.Company
		if opt, ok := mapOptions(sub.Options)["name"]; ok {
			name = opt.StringValue()
		}
		if name == "" {
			h.respondError(s, i, models.ErrCompanyNotFound)
			return
		}
		company, err := h.companies.Get(name)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		members, err := h.companies.Members(company.Name)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		h.respondEmbed(s, i, companyEmbed(company, members))
	case "hire":
		target, err := h.players.Get(mapOptions(sub.Options)["user"].UserValue(s).ID)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		if err := h.companies.Hire(player, target); err != nil {
			h.respondError(s, i, err)
			return
		}
		h.respondText(s, i, fmt.Sprintf("%s now drives for %s!", target.Name, player.Company), false)
	case "fire":
		target, err := h.players.Get(mapOptions(sub.Options)["user"].UserValue(s).ID)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		if err := h.companies.Fire(player, target); err != nil {
			h.respondError(s, i, err)
			return
		}
		h.respondText(s, i, fmt.Sprintf("%s no longer drives for %s.", target.Name, player.Company), false)
	case "leave":
		company := player.Company
		if err := h.companies.Leave(player); err != nil {
			h.respondError(s, i, err)
			return
		}
		h.respondText(s, i, fmt.Sprintf("You left %s.", company), false)
	}
}

func (h *DiscordHandler) handleCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	player, err := h.players.Get(user.ID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	opts := mapOptions(options)
	result, err := h.gambling.Coinflip(player, opts["side"].StringValue(), opts["amount"].IntValue())
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	if result.Won {
		h.respondText(s, i, fmt.Sprintf("🪙 The coin shows **%s** — you win $%d!", result.Side, result.Payout), false)
	} else {
		h.respondText(s, i, fmt.Sprintf("🪙 The coin shows **%s** — better luck next time.", result.Side), false)
	}
}

func (h *DiscordHandler) handleSlots(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, options []*discordgo.ApplicationCommandInteractionDataOption) {
	player, err := h.players.Get(user.ID)
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	result, err := h.gambling.Slots(player, mapOptions(options)["amount"].IntValue())
	if err != nil {
		h.respondError(s, i, err)
		return
	}
	reels := strings.Join(result.Reels[:], " ")
	if result.Payout > 0 {
		h.respondText(s, i, fmt.Sprintf("🎰 %s — you win $%d!", reels, result.Payout), false)
	} else {
		h.respondText(s, i, fmt.Sprintf("🎰 %s — the house thanks you.", reels), false)
	}
}

func (h *DiscordHandler) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	key := mapOptions(options)["key"].StringValue()

	var lines []string
	if entries, ok := h.leaderboard.Top(key, 10); ok {
		for _, entry := range entries {
			name := entry.PlayerID
			if player, err := h.players.Get(entry.PlayerID); err == nil {
				name = player.Name
			}
			lines = append(lines, fmt.Sprintf("`#%d` **%s** — %s", entry.Rank, name, formatScore(key, entry.Score)))
		}
	} else {
		// Redis unavailable, read straight from SQL
		players, err := h.players.TopPlayers(key, 10)
		if err != nil {
			h.respondError(s, i, err)
			return
		}
		for rank, player := range players {
			var score int64
			switch key {
			case "money":
				score = player.Money
			case "miles":
				score = player.Miles
			case "level":
				score = int64(player.Level)
			}
			lines = append(lines, fmt.Sprintf("`#%d` **%s** — %s", rank+1, player.Name, formatScore(key, score)))
		}
	}

	if len(lines) == 0 {
		h.respondText(s, i, "Nobody on the board yet.", false)
		return
	}
	h.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Top drivers by %s", key),
		Description: strings.Join(lines, "\n"),
		Color:       embedColor,
	})
}

func formatScore(key string, score int64) string {
	switch key {
	case "money":
		return fmt.Sprintf("$%d", score)
	case "miles":
		return fmt.Sprintf("%d miles", score)
	default:
		return fmt.Sprintf("level %d", score)
	}
}

func (h *DiscordHandler) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	playerCount, _ := h.players.Count()
	companyCount, _ := h.companies.Count()
	driving, _ := h.driving.ActiveSessions()
	jobs, _ := h.jobs.ActiveJobs()

	h.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "🚚 Truckbot",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Registered players", Value: fmt.Sprintf("%d", playerCount), Inline: true},
			{Name: "Companies", Value: fmt.Sprintf("%d", companyCount), Inline: true},
			{Name: "On the road", Value: fmt.Sprintf("%d", driving), Inline: true},
			{Name: "Active jobs", Value: fmt.Sprintf("%d", jobs), Inline: true},
			{Name: "Map", Value: fmt.Sprintf("%d×%d cells, %d places", models.MapBorder+1, models.MapBorder+1, len(h.catalog.Places())), Inline: true},
			{Name: "Uptime", Value: time.Since(startTime).Round(time.Second).String(), Inline: true},
		},
	})
}

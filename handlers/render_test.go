package handlers

import (
	"strings"
	"testing"

	"truckbot/models"
	"truckbot/services"

	"github.com/bwmarrin/discordgo"
)

func testPlayer(pos models.Position) *models.Player {
	p := &models.Player{ID: "100", Name: "Hauler", Gas: 200}
	p.SetPos(pos)
	return p
}

func testTruck(t *testing.T, catalog *services.CatalogService) models.Truck {
	t.Helper()
	truck, err := catalog.TruckByID(0)
	if err != nil {
		t.Fatalf("truck catalog is missing the starter truck: %v", err)
	}
	return truck
}

func TestRenderMinimapDimensions(t *testing.T) {
	catalog := services.NewCatalogService()
	player := testPlayer(models.Position{X: 12, Y: 12})
	truck := testTruck(t, catalog)

	grid := renderMinimap(catalog, nil, player, truck)
	rows := strings.Split(strings.TrimRight(grid, "\n"), "\n")
	if len(rows) != 7 {
		t.Fatalf("minimap has %d rows, want 7", len(rows))
	}
	for i, row := range rows {
		if n := len([]rune(row)); n != 7 {
			t.Errorf("row %d has %d cells, want 7", i, n)
		}
	}

	// the truck sits in the middle cell
	center := []rune(rows[3])
	if string(center[3]) != truck.Emoji {
		t.Errorf("center cell = %q, want the truck emoji %q", string(center[3]), truck.Emoji)
	}
}

func TestRenderMinimapShowsPlacesAndVoid(t *testing.T) {
	catalog := services.NewCatalogService()
	truck := testTruck(t, catalog)

	// standing next to the sawmill at (3,20): it appears on the row above
	player := testPlayer(models.Position{X: 3, Y: 19})
	sawmill, err := catalog.PlaceByName("Sawmill")
	if err != nil {
		t.Fatalf("catalog is missing the sawmill: %v", err)
	}
	grid := renderMinimap(catalog, nil, player, truck)
	if !strings.Contains(grid, sawmill.Emoji) {
		t.Error("sawmill emoji missing from the minimap")
	}

	// a corner view is padded with void cells
	player = testPlayer(models.Position{X: 0, Y: 0})
	grid = renderMinimap(catalog, nil, player, truck)
	if !strings.Contains(grid, emojiOffMap) {
		t.Error("off-map cells missing from a corner view")
	}
}

func TestRenderMinimapShowsCompanyHQ(t *testing.T) {
	catalog := services.NewCatalogService()
	truck := testTruck(t, catalog)
	player := testPlayer(models.Position{X: 7, Y: 7})

	hq := models.Position{X: 8, Y: 7}
	companies := []models.Company{{Name: "Haulers Inc", Logo: "🚚", Position: hq.Encode()}}
	grid := renderMinimap(catalog, companies, player, truck)
	if !strings.Contains(grid, "🚚") {
		t.Error("company logo missing from the minimap")
	}
}

func directionButtons(t *testing.T, components []discordgo.MessageComponent) []discordgo.Button {
	t.Helper()
	row, ok := components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("first component is %T, want an ActionsRow", components[0])
	}
	buttons := make([]discordgo.Button, 0, len(row.Components))
	for _, c := range row.Components {
		button, ok := c.(discordgo.Button)
		if !ok {
			t.Fatalf("row contains %T, want a Button", c)
		}
		buttons = append(buttons, button)
	}
	return buttons
}

func TestDriveComponentsDisableBorderButtons(t *testing.T) {
	catalog := services.NewCatalogService()
	truck := testTruck(t, catalog)

	cases := []struct {
		name     string
		pos      models.Position
		disabled int
	}{
		{"interior", models.Position{X: 12, Y: 12}, 0},
		{"left edge", models.Position{X: 0, Y: 12}, 1},
		{"top edge", models.Position{X: 12, Y: models.MapBorder}, 1},
		{"corner", models.Position{X: 0, Y: 0}, 2},
		{"far corner", models.Position{X: models.MapBorder, Y: models.MapBorder}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buttons := directionButtons(t, driveComponents(catalog, testPlayer(tc.pos), truck))
			if len(buttons) != 4 {
				t.Fatalf("got %d directional buttons, want 4", len(buttons))
			}
			disabled := 0
			for _, b := range buttons {
				if b.Disabled {
					disabled++
				}
			}
			if disabled != tc.disabled {
				t.Errorf("%d buttons disabled, want %d", disabled, tc.disabled)
			}
		})
	}
}

func TestDriveComponentsCarryThePlayerID(t *testing.T) {
	catalog := services.NewCatalogService()
	truck := testTruck(t, catalog)
	player := testPlayer(models.Position{X: 12, Y: 12})

	components := driveComponents(catalog, player, truck)
	for _, component := range components {
		row, ok := component.(discordgo.ActionsRow)
		if !ok {
			t.Fatalf("component is %T, want an ActionsRow", component)
		}
		for _, c := range row.Components {
			button := c.(discordgo.Button)
			parts := strings.SplitN(button.CustomID, ":", 3)
			if len(parts) != 3 || parts[0] != "drive" || parts[2] != player.ID {
				t.Errorf("custom id %q does not carry the owner", button.CustomID)
			}
		}
	}
}

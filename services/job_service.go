package services

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"truckbot/models"

	"gorm.io/gorm"
)

// Reward formula constants: the pickup leg (current position to origin) pays
// less per mile than the delivery leg (origin to destination).
const (
	pickupRewardPerMile   = 12
	deliveryRewardPerMile = 30
	companyCutDivisor     = 10
)

type JobService struct {
	db      *gorm.DB
	catalog *CatalogService
	players *PlayerService
	company *CompanyService
	rng     *rand.Rand
}

func NewJobService(db *gorm.DB, catalog *CatalogService, players *PlayerService, company *CompanyService, rng *rand.Rand) *JobService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &JobService{
		db:      db,
		catalog: catalog,
		players: players,
		company: company,
		rng:     rng,
	}
}

// GetByPlayer returns the player's active job, if any.
func (s *JobService) GetByPlayer(playerID string) (*models.Job, error) {
	var job models.Job
	if err := s.db.Where("player_id = ?", playerID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNoActiveJob
		}
		return nil, err
	}
	return &job, nil
}

// Generate rolls a new delivery job for a player without one. The origin is
// a random producing place, the destination any other place; the reward
// scales with both legs of the trip and the player's level.
func (s *JobService) Generate(player *models.Player) (*models.Job, error) {
	if _, err := s.GetByPlayer(player.ID); err == nil {
		return nil, models.ErrJobAlreadyActive
	} else if !errors.Is(err, models.ErrNoActiveJob) {
		return nil, err
	}

	origins := s.catalog.ProducingPlaces()
	origin := origins[s.rng.Intn(len(origins))]

	places := s.catalog.Places()
	destination := origin
	for destination.Name == origin.Name {
		destination = places[s.rng.Intn(len(places))]
	}

	pickup := player.Pos().Distance(origin.Position) * pickupRewardPerMile
	delivery := origin.Position.Distance(destination.Position) * deliveryRewardPerMile
	reward := int64((pickup + delivery) * float64(player.Level+1))

	job := models.Job{
		PlayerID:    player.ID,
		Origin:      origin.Name,
		Destination: destination.Name,
		State:       models.JobClaimed,
		Reward:      reward,
	}
	if err := s.db.Create(&job).Error; err != nil {
		return nil, err
	}

	log.Printf("Generated job for %s: %s -> %s ($%d)", player.ID, origin.Name, destination.Name, reward)
	return &job, nil
}

// NotifyLoad advances Claimed -> Loaded when the player loads the origin's
// produced item while standing at the origin. Anything else is a no-op for
// the job; the item load itself already happened independently.
func (s *JobService) NotifyLoad(player *models.Player, item string) (*models.Job, error) {
	job, err := s.GetByPlayer(player.ID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveJob) {
			return nil, nil
		}
		return nil, err
	}
	if job.State != models.JobClaimed {
		return job, nil
	}

	origin, err := s.catalog.PlaceByName(job.Origin)
	if err != nil {
		return job, err
	}
	if item != origin.ProducedItem || player.Pos() != origin.Position {
		return job, nil
	}

	job.State = models.JobLoaded
	if err := s.db.Model(job).Update("state", job.State).Error; err != nil {
		return job, err
	}
	return job, nil
}

// JobCompletion reports the side effects of a delivered job.
type JobCompletion struct {
	Job          models.Job
	XPGained     int64
	LevelsGained int
	CompanyCut   int64
}

// NotifyUnload advances Loaded -> Done when the player unloads the cargo at
// the destination: the reward is paid, level-scaled xp granted, the job row
// deleted and a tenth of the reward credited to the player's company.
// Returns nil when the unload did not complete a job.
func (s *JobService) NotifyUnload(player *models.Player, item string) (*JobCompletion, error) {
	job, err := s.GetByPlayer(player.ID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveJob) {
			return nil, nil
		}
		return nil, err
	}
	if job.State != models.JobLoaded {
		return nil, nil
	}

	origin, err := s.catalog.PlaceByName(job.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := s.catalog.PlaceByName(job.Destination)
	if err != nil {
		return nil, err
	}
	if item != origin.ProducedItem || player.Pos() != destination.Position {
		return nil, nil
	}

	job.State = models.JobDone
	if err := s.players.AddMoney(player, job.Reward); err != nil {
		return nil, err
	}

	// xp range scales with level, like the reward does
	xp := int64(s.rng.Intn(10*(player.Level+1))) + int64(player.Level+1)
	levels, err := s.players.AddXP(player, xp)
	if err != nil {
		return nil, err
	}

	var cut int64
	if player.Company != "" {
		cut = job.Reward / companyCutDivisor
		if err := s.company.AddNetWorth(player.Company, cut); err != nil {
			// not fatal for the delivery itself
			log.Printf("Failed to credit company %s for job %d: %v", player.Company, job.ID, err)
			cut = 0
		}
	}

	if err := s.db.Delete(&models.Job{}, job.ID).Error; err != nil {
		return nil, err
	}

	log.Printf("Player %s completed job %d: +$%d, +%d xp", player.ID, job.ID, job.Reward, xp)
	return &JobCompletion{
		Job:          *job,
		XPGained:     xp,
		LevelsGained: levels,
		CompanyCut:   cut,
	}, nil
}

// Sweep garbage-collects jobs older than the retention window, whatever
// state they are in.
func (s *JobService) Sweep(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.Job{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Swept %d expired jobs", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

func (s *JobService) ActiveJobs() (int64, error) {
	var n int64
	err := s.db.Model(&models.Job{}).Count(&n).Error
	return n, err
}

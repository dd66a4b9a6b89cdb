package services

import (
	"testing"
	"time"

	"truckbot/models"
)

type recordingCloser struct {
	targets []ResponseTarget
	reasons []string
}

func (r *recordingCloser) CloseDriveMessage(target ResponseTarget, reason string) {
	r.targets = append(r.targets, target)
	r.reasons = append(r.reasons, reason)
}

func TestSweeperTickNotifiesCloser(t *testing.T) {
	env := newTestEnv(t)
	jobs := NewJobService(env.db, env.catalog, env.players, env.companies, nil)
	sweeper := NewSweeper(env.driving, jobs, time.Second, 10*time.Minute, 7*24*time.Hour)
	closer := &recordingCloser{}
	sweeper.SetCloser(closer)

	player := env.registerPlayer(t, "100", "Idle")
	session := startDrive(t, env, player)
	env.driving.AttachMessage(session, "msg-1")
	env.db.Model(session).Update("last_action", time.Now().Add(-11*time.Minute))

	sweeper.Tick()

	if len(closer.targets) != 1 || closer.targets[0].MessageID != "msg-1" {
		t.Fatalf("closer got %v, want the swept session's target", closer.targets)
	}
	if closer.reasons[0] == "" {
		t.Error("swept session closed without a reason")
	}
	if _, err := env.driving.GetSession(player.ID); err != models.ErrNotDriving {
		t.Errorf("session survived the tick: %v", err)
	}

	// a tick with nothing to sweep stays quiet
	sweeper.Tick()
	if len(closer.targets) != 1 {
		t.Errorf("idle tick called the closer %d times, want 1", len(closer.targets))
	}
}

// A sweeper without a closer still removes the session.
func TestSweeperTickWithoutCloser(t *testing.T) {
	env := newTestEnv(t)
	jobs := NewJobService(env.db, env.catalog, env.players, env.companies, nil)
	sweeper := NewSweeper(env.driving, jobs, time.Second, 10*time.Minute, 7*24*time.Hour)

	player := env.registerPlayer(t, "100", "Idle")
	session := startDrive(t, env, player)
	env.db.Model(session).Update("last_action", time.Now().Add(-11*time.Minute))

	sweeper.Tick()

	if _, err := env.driving.GetSession(player.ID); err != models.ErrNotDriving {
		t.Errorf("session survived the tick: %v", err)
	}
}

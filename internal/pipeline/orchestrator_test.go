package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/dgallion1/steelbid/internal/config"
	"github.com/dgallion1/steelbid/internal/extract"
)

func testConfig() config.Config {
	return config.Config{
		WorkerCount:          1,
		MaxQueueSize:         1,
		MaxConcurrentExtract: 1,
		BatchMaxChars:        80000,
		BatchMaxSheets:       5,
		TextModeMinChars:     100,
		JobTTL:               time.Hour,
		CleanupSchedule:      "@every 1h",
	}
}

func TestOrchestrator_ProcessesSubmittedJob(t *testing.T) {
	ex := &fakeExtractor{fn: func(int, extract.Request) ([]extract.RawMember, error) {
		return []extract.RawMember{raw("B1", "W8x31", 1, 10, "")}, nil
	}}
	o := NewOrchestrator(testConfig(), ex, nil, discardLogger())
	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer o.Stop()

	job := NewJob("orch-1", "", "s.txt", []byte("B1 W8x31"))
	events, cancel := job.Subscribe()
	defer cancel()
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if o.GetJob("orch-1") != job {
		t.Error("job not registered")
	}

	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case _, ok := <-events:
			done = !ok
		case <-timeout:
			t.Fatal("job did not finish")
		}
	}
	if s := job.Snapshot().Status; s != StatusCompleted {
		t.Errorf("status = %s", s)
	}
	if o.Model() != "fake" {
		t.Errorf("model = %q", o.Model())
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	ex := &fakeExtractor{fn: func(int, extract.Request) ([]extract.RawMember, error) { return nil, nil }}
	// Not started: nothing drains the queue.
	o := NewOrchestrator(testConfig(), ex, nil, discardLogger())

	if err := o.Submit(NewJob("q1", "", "s.txt", []byte("x"))); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob("q2", "", "s.txt", []byte("x"))
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if s := second.Snapshot(); s.Status != StatusFailed || s.Phase != "queue_full" {
		t.Errorf("snapshot = %+v", s)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("queue depth = %d", o.QueueDepth())
	}
}

func TestOrchestrator_BadCleanupSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.CleanupSchedule = "every now and then"
	o := NewOrchestrator(cfg, &fakeExtractor{}, nil, discardLogger())
	if err := o.Start(context.Background()); err == nil {
		t.Error("expected schedule error")
	}
}

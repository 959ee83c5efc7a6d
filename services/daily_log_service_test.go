package services

import (
	"testing"
	"time"
)

func TestDailyLogUpsertSameDay(t *testing.T) {
	svc := NewDailyLogService(newTestDB(t))

	first, err := svc.Upsert(1, DailyLogInput{Steps: 4000, SleepHours: 7, Energy: 3, Stress: 2, Mood: 3})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Upsert(1, DailyLogInput{Steps: 9000, SleepHours: 7, Energy: 4, Stress: 2, Mood: 4})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("same-day re-log created a new row (%d -> %d)", first.ID, second.ID)
	}

	today, err := svc.Today(1)
	if err != nil {
		t.Fatal(err)
	}
	if today == nil || today.Steps != 9000 || today.Energy != 4 {
		t.Fatalf("today = %+v, want the second write", today)
	}
}

func TestDailyLogRejectsFutureAndBadRatings(t *testing.T) {
	svc := NewDailyLogService(newTestDB(t))

	future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	if _, err := svc.Upsert(1, DailyLogInput{Date: future, Energy: 3}); err == nil {
		t.Fatal("future date accepted")
	}
	if _, err := svc.Upsert(1, DailyLogInput{Energy: 9}); err == nil {
		t.Fatal("rating above 5 accepted")
	}
	if _, err := svc.Upsert(1, DailyLogInput{Steps: -10, Energy: 3}); err == nil {
		t.Fatal("negative steps accepted")
	}
}

func TestDailyLogBackfillAndRange(t *testing.T) {
	svc := NewDailyLogService(newTestDB(t))

	for i := 0; i < 3; i++ {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		if _, err := svc.Upsert(1, DailyLogInput{Date: date, Steps: 5000, SleepHours: 7, Energy: 3, Stress: 2, Mood: 3}); err != nil {
			t.Fatal(err)
		}
	}

	logs, err := svc.List(1, time.Now().AddDate(0, 0, -6), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Fatalf("got %d logs, want 3", len(logs))
	}
	if !logs[0].Date.Before(logs[2].Date) {
		t.Fatal("logs must come back oldest first")
	}
}

package schedule

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"meditrack/internal/domain/medicines"
	"meditrack/internal/platform/civil"
	"meditrack/internal/platform/logger"
)

func med1() medicines.Medicine {
	return medicines.Medicine{
		ID:        "med1",
		Name:      "Aspirin",
		Type:      medicines.TypeTablet,
		StartDate: "2023-10-01",
		EndDate:   "2023-12-31",
		TimeSlots: []string{"08:00", "20:00"},
		Days:      []medicines.Weekday{medicines.Mon, medicines.Wed, medicines.Fri},
	}
}

func everyDay(id string, slots ...string) medicines.Medicine {
	return medicines.Medicine{
		ID:        id,
		Name:      "Vitamin " + id,
		StartDate: "2023-10-01",
		TimeSlots: slots,
		Days: []medicines.Weekday{
			medicines.Sun, medicines.Mon, medicines.Tue, medicines.Wed,
			medicines.Thu, medicines.Fri, medicines.Sat,
		},
	}
}

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestIsMedicineActiveOnDate_MatchesDefinition(t *testing.T) {
	m := med1()
	start := mustDate(t, "2023-09-20")

	for i := 0; i < 120; i++ {
		d := start.AddDays(i)
		want := m.HasDay(medicines.WeekdayOf(d.Weekday())) &&
			!d.Before(mustDate(t, m.StartDate)) &&
			!d.After(mustDate(t, m.EndDate))
		if got := IsMedicineActiveOnDate(m, d); got != want {
			t.Fatalf("%s: expected %v, got %v", d, want, got)
		}
	}
}

func TestIsMedicineActiveOnDate_EndDateInclusive(t *testing.T) {
	m := med1()
	m.Days = []medicines.Weekday{medicines.Sun, medicines.Mon}

	// 2023-12-31 es domingo
	if !IsMedicineActiveOnDate(m, mustDate(t, "2023-12-31")) {
		t.Fatalf("expected active on end date")
	}
	if IsMedicineActiveOnDate(m, mustDate(t, "2024-01-01")) {
		t.Fatalf("expected inactive the day after end date")
	}
}

func TestIsMedicineActiveOnDate_ExcludesBadData(t *testing.T) {
	d := mustDate(t, "2023-10-02")

	cases := map[string]func(m *medicines.Medicine){
		"missing start":   func(m *medicines.Medicine) { m.StartDate = "" },
		"malformed start": func(m *medicines.Medicine) { m.StartDate = "10/01/2023" },
		"malformed end":   func(m *medicines.Medicine) { m.EndDate = "2023-13-01" },
		"no days":         func(m *medicines.Medicine) { m.Days = nil },
		"no slots":        func(m *medicines.Medicine) { m.TimeSlots = nil },
	}
	for name, mutate := range cases {
		m := med1()
		mutate(&m)
		if IsMedicineActiveOnDate(m, d) {
			t.Fatalf("%s: expected inactive", name)
		}
	}

	ongoing := med1()
	ongoing.EndDate = ""
	if !IsMedicineActiveOnDate(ongoing, mustDate(t, "2030-01-07")) {
		t.Fatalf("expected medicine without end date to stay active")
	}
}

func TestBuildDailySchedule_GroupsBySlot(t *testing.T) {
	e := NewEngine(nil)
	ds := e.BuildDailySchedule([]medicines.Medicine{med1()}, nil, mustDate(t, "2023-10-02"))

	if len(ds.Groups) != 2 || ds.Groups[0].TimeSlot != "08:00" || ds.Groups[1].TimeSlot != "20:00" {
		t.Fatalf("unexpected groups %#v", ds.Groups)
	}
	entries := ds.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, en := range entries {
		if en.Taken || en.TakenAt != nil {
			t.Fatalf("expected untaken entry, got %#v", en)
		}
	}

	// martes: nada
	if ds := e.BuildDailySchedule([]medicines.Medicine{med1()}, nil, mustDate(t, "2023-10-03")); len(ds.Groups) != 0 {
		t.Fatalf("expected empty schedule on Tuesday, got %#v", ds.Groups)
	}
}

func TestBuildDailySchedule_ReflectsToggle(t *testing.T) {
	e := NewEngine(nil)
	date := mustDate(t, "2023-10-02")
	now := time.Date(2023, 10, 2, 8, 5, 0, 0, time.UTC)

	records := ToggleDoseTaken(nil, DoseKey{MedicineID: "med1", Date: date, TimeSlot: "08:00"}, true, now)
	ds := e.BuildDailySchedule([]medicines.Medicine{med1()}, records, date)

	morning := ds.Groups[0].Entries[0]
	evening := ds.Groups[1].Entries[0]
	if !morning.Taken || morning.TakenAt == nil || !morning.TakenAt.Equal(now) {
		t.Fatalf("expected 08:00 taken at %v, got %#v", now, morning)
	}
	if evening.Taken {
		t.Fatalf("expected 20:00 still untaken")
	}
}

func TestBuildDailySchedule_SkipsInvalidAndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Options{Level: logger.Debug, Format: logger.FormatJSON})
	e := NewEngine(log)

	bad := med1()
	bad.ID = "broken"
	bad.StartDate = "not-a-date"

	meds := []medicines.Medicine{bad, med1()}
	ds := e.BuildDailySchedule(meds, nil, mustDate(t, "2023-10-02"))

	for _, en := range ds.Entries() {
		if en.Medicine.ID == "broken" {
			t.Fatalf("expected broken medicine to be excluded")
		}
	}
	if len(ds.Entries()) != 2 {
		t.Fatalf("expected valid medicine to survive, got %d entries", len(ds.Entries()))
	}
	if !strings.Contains(buf.String(), `"medicine_id":"broken"`) {
		t.Fatalf("expected warning naming the medicine, got %q", buf.String())
	}
	if meds[0].StartDate != "not-a-date" {
		t.Fatalf("input must not be mutated")
	}
}

func TestBuildDailySchedule_KeepsMedicineOrderInsideGroup(t *testing.T) {
	e := NewEngine(nil)
	b := everyDay("b", "08:00")
	a := everyDay("a", "08:00", "12:00")

	ds := e.BuildDailySchedule([]medicines.Medicine{b, a}, nil, mustDate(t, "2023-10-05"))
	if len(ds.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(ds.Groups))
	}
	g := ds.Groups[0]
	if g.TimeSlot != "08:00" || len(g.Entries) != 2 || g.Entries[0].Medicine.ID != "b" || g.Entries[1].Medicine.ID != "a" {
		t.Fatalf("unexpected first group %#v", g)
	}
}

func TestBuildDailySchedule_IgnoresOrphanAndForeignSlotRecords(t *testing.T) {
	e := NewEngine(nil)
	date := mustDate(t, "2023-10-02")
	now := time.Now()

	records := []TakenRecord{
		{MedicineID: "deleted", Date: date, TimeSlot: "08:00", TakenAt: now},
		{MedicineID: "med1", Date: date, TimeSlot: "13:00", TakenAt: now},
	}
	ds := e.BuildDailySchedule([]medicines.Medicine{med1()}, records, date)
	for _, en := range ds.Entries() {
		if en.Taken {
			t.Fatalf("expected no taken entries, got %#v", en)
		}
	}
}

func sameRecords(a, b []TakenRecord) bool {
	if len(a) != len(b) {
		return false
	}
	set := map[DoseKey]time.Time{}
	for _, r := range a {
		set[r.Key()] = r.TakenAt
	}
	for _, r := range b {
		at, ok := set[r.Key()]
		if !ok || !at.Equal(r.TakenAt) {
			return false
		}
	}
	return true
}

func TestToggleDoseTaken_Idempotent(t *testing.T) {
	key := DoseKey{MedicineID: "med1", Date: civil.New(2023, 10, 2), TimeSlot: "08:00"}
	t1 := time.Date(2023, 10, 2, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	once := ToggleDoseTaken(nil, key, true, t1)
	twice := ToggleDoseTaken(once, key, true, t2)
	if !sameRecords(once, twice) || len(twice) != 1 {
		t.Fatalf("expected idempotent toggle, got %v vs %v", once, twice)
	}

	off := ToggleDoseTaken(twice, key, false, t2)
	offAgain := ToggleDoseTaken(off, key, false, t2)
	if len(off) != 0 || len(offAgain) != 0 {
		t.Fatalf("expected empty after untoggle, got %v / %v", off, offAgain)
	}
}

func TestToggleDoseTaken_RoundTrip(t *testing.T) {
	base := time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC)
	original := []TakenRecord{
		{MedicineID: "med1", Date: civil.New(2023, 10, 1), TimeSlot: "08:00", TakenAt: base},
		{MedicineID: "med2", Date: civil.New(2023, 10, 2), TimeSlot: "20:00", TakenAt: base},
	}
	snapshot := append([]TakenRecord(nil), original...)

	key := DoseKey{MedicineID: "med1", Date: civil.New(2023, 10, 2), TimeSlot: "08:00"}
	added := ToggleDoseTaken(original, key, true, base)
	back := ToggleDoseTaken(added, key, false, base)

	if !sameRecords(back, snapshot) {
		t.Fatalf("expected round trip to original, got %v", back)
	}
	if !sameRecords(original, snapshot) {
		t.Fatalf("input must not be mutated")
	}
}

func TestComputeAdherence_NothingScheduledIs100(t *testing.T) {
	e := NewEngine(nil)
	from, to := mustDate(t, "2023-10-03"), mustDate(t, "2023-10-03") // martes

	sum := e.ComputeAdherence([]medicines.Medicine{med1()}, nil, from, to, to)
	if sum.AdherenceRate != 100 || sum.ScheduledDoses != 0 {
		t.Fatalf("expected rate 100 with no doses, got %#v", sum)
	}

	empty := e.ComputeAdherence(nil, nil, from, to, to)
	if empty.AdherenceRate != 100 || empty.Rating != RatingExcellent {
		t.Fatalf("expected rate 100 with no medicines, got %#v", empty)
	}
}

func TestComputeAdherence_AllTaken(t *testing.T) {
	e := NewEngine(nil)
	m := everyDay("daily", "08:00", "20:00")
	from, to := mustDate(t, "2023-10-02"), mustDate(t, "2023-10-08")

	var records []TakenRecord
	for d := from; !d.After(to); d = d.AddDays(1) {
		for _, s := range m.TimeSlots {
			records = ToggleDoseTaken(records, DoseKey{MedicineID: m.ID, Date: d, TimeSlot: s}, true, d.Time())
		}
	}

	sum := e.ComputeAdherence([]medicines.Medicine{m}, records, from, to, to)
	if sum.AdherenceRate != 100 || sum.ActiveMedicines != 1 {
		t.Fatalf("expected 100%% and 1 active, got %#v", sum)
	}
	if sum.ScheduledDoses != 14 || sum.CompletedDoses != 14 || sum.PerfectDays != 7 || sum.MissedDoses != 0 {
		t.Fatalf("unexpected counters %#v", sum)
	}
}

func TestComputeAdherence_PartialAndMissed(t *testing.T) {
	e := NewEngine(nil)
	m := everyDay("daily", "08:00", "20:00")
	from, to := mustDate(t, "2023-10-02"), mustDate(t, "2023-10-05")
	ref := mustDate(t, "2023-10-04")

	records := []TakenRecord{
		{MedicineID: "daily", Date: from, TimeSlot: "08:00"},
		{MedicineID: "daily", Date: from, TimeSlot: "20:00"},
		{MedicineID: "daily", Date: from.AddDays(1), TimeSlot: "08:00"},
	}

	sum := e.ComputeAdherence([]medicines.Medicine{m}, records, from, to, ref)
	// 8 programadas, 3 tomadas => 37.5 => 38
	if sum.ScheduledDoses != 8 || sum.CompletedDoses != 3 || sum.AdherenceRate != 38 {
		t.Fatalf("unexpected rate %#v", sum)
	}
	// solo cuenta como perdida la de 10-03 20:00 (antes de ref)
	if sum.MissedDoses != 1 || sum.PerfectDays != 1 {
		t.Fatalf("unexpected missed/perfect %#v", sum)
	}
	if sum.Rating != RatingNeedsImprovement {
		t.Fatalf("expected needs_improvement, got %s", sum.Rating)
	}
}

func TestComputeAdherence_SwapsInvertedWindow(t *testing.T) {
	e := NewEngine(nil)
	m := everyDay("daily", "08:00")
	a, b := mustDate(t, "2023-10-02"), mustDate(t, "2023-10-04")

	sum := e.ComputeAdherence([]medicines.Medicine{m}, nil, b, a, b)
	if sum.WindowStart != a || sum.WindowEnd != b || sum.ScheduledDoses != 3 {
		t.Fatalf("expected swapped window, got %#v", sum)
	}
}

func TestComputeAdherence_ActiveMedicinesOutsideRange(t *testing.T) {
	e := NewEngine(nil)
	m := everyDay("daily", "08:00")
	m.EndDate = "2023-10-03"

	sum := e.ComputeAdherence([]medicines.Medicine{m}, nil, mustDate(t, "2023-10-01"), mustDate(t, "2023-10-07"), mustDate(t, "2023-10-07"))
	if sum.ActiveMedicines != 0 {
		t.Fatalf("expected 0 active after end date, got %d", sum.ActiveMedicines)
	}
	if sum.ScheduledDoses != 3 {
		t.Fatalf("expected only in-range doses, got %d", sum.ScheduledDoses)
	}
}

func TestMonthIndicators_Levels(t *testing.T) {
	e := NewEngine(nil)
	meds := []medicines.Medicine{
		med1(),
		everyDay("a", "09:00"),
		everyDay("b", "10:00"),
	}

	days := e.MonthIndicators(meds, 2023, time.October)
	if len(days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(days))
	}
	// 2023-10-02 lunes: 3 medicinas; 2023-10-03 martes: 2
	if days[1].Count != 3 || days[1].Level != LevelMany {
		t.Fatalf("unexpected Monday indicator %#v", days[1])
	}
	if days[2].Count != 2 || days[2].Level != LevelMedium {
		t.Fatalf("unexpected Tuesday indicator %#v", days[2])
	}

	sept := e.MonthIndicators(meds, 2023, time.September)
	for _, d := range sept {
		if d.Count != 0 || d.Level != LevelNone {
			t.Fatalf("expected nothing before start, got %#v", d)
		}
	}
}

func TestLevelFor(t *testing.T) {
	cases := map[int]IndicatorLevel{0: LevelNone, 1: LevelSingle, 2: LevelMedium, 3: LevelMany, 9: LevelMany}
	for n, want := range cases {
		if got := LevelFor(n); got != want {
			t.Fatalf("LevelFor(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestRatingFor(t *testing.T) {
	if RatingFor(90) != RatingExcellent || RatingFor(89) != RatingGood || RatingFor(70) != RatingGood || RatingFor(69) != RatingNeedsImprovement {
		t.Fatalf("unexpected rating thresholds")
	}
}

func TestNextDoses(t *testing.T) {
	e := NewEngine(nil)
	date := mustDate(t, "2023-10-02")
	meds := []medicines.Medicine{med1(), everyDay("c", "12:00")}
	records := []TakenRecord{{MedicineID: "c", Date: date, TimeSlot: "12:00"}}

	ds := e.BuildDailySchedule(meds, records, date)

	next := NextDoses(ds, "09:30", 0)
	if len(next) != 1 || next[0].TimeSlot != "20:00" {
		t.Fatalf("expected only 20:00 pending, got %#v", next)
	}

	all := NextDoses(ds, "00:00", 1)
	if len(all) != 1 || all[0].TimeSlot != "08:00" {
		t.Fatalf("expected limit to keep first pending, got %#v", all)
	}
}

package repository

import (
	"strings"
	"testing"

	"uni-scheduler/backend/internal/model"
)

func TestKeepConflicting(t *testing.T) {
	term := model.Term{Semester: "Fall", AcademicYear: "2025-2026"}
	slot := model.TimeInterval{
		Day:   "MONDAY",
		Start: model.NewClockTime(10, 0, 0),
		End:   model.NewClockTime(12, 0, 0),
		Term:  term,
	}

	row := func(id, day string, start, end int, t model.Term) model.Placement {
		p := model.Placement{PlacementID: id}
		p.SetInterval(model.TimeInterval{
			Day:   day,
			Start: model.NewClockTime(start, 0, 0),
			End:   model.NewClockTime(end, 0, 0),
			Term:  t,
		})
		return p
	}

	rows := []model.Placement{
		row("overlap", "MONDAY", 9, 11, term),
		row("touching-before", "MONDAY", 8, 10, term),
		row("touching-after", "MONDAY", 12, 14, term),
		row("other-day", "TUESDAY", 10, 12, term),
		row("other-term", "MONDAY", 10, 12, model.Term{Semester: "Spring", AcademicYear: "2025-2026"}),
		row("contained", "MONDAY", 10, 11, term),
	}

	got := keepConflicting(rows, slot)
	if len(got) != 2 || got[0].PlacementID != "overlap" || got[1].PlacementID != "contained" {
		t.Errorf("期望保留 overlap、contained，实际=%v", ids(got))
	}
}

func TestWeekdayOrdinalSQL(t *testing.T) {
	want := "CASE day_of_week WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3" +
		" WHEN 'THURSDAY' THEN 4 WHEN 'FRIDAY' THEN 5 WHEN 'SATURDAY' THEN 6 WHEN 'SUNDAY' THEN 7 ELSE 8 END"
	if got := weekdayOrdinalSQL(); got != want {
		t.Errorf("weekdayOrdinalSQL() =\n%s\nwant\n%s", got, want)
	}
	if !strings.Contains(placementOrder, want+" ASC, day_of_week ASC, start_time ASC") {
		t.Errorf("列表排序未按星期序号: %s", placementOrder)
	}
}

func ids(ps []model.Placement) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.PlacementID)
	}
	return out
}

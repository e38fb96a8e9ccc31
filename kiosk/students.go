package kiosk

import (
	"time"
)

// School day boundaries, as minutes after midnight.
const (
	opensAt        = 7 * 60
	closesAt       = 16 * 60
	lateFrom       = 8*60 + 30
	lateUntil      = 15*60 + 30
	earlyOutFrom   = 8*60 + 30
	earlyOutBefore = 15*60 + 15
)

// Student identifies a student at the kiosk.
type Student struct {
	FirstName string
	LastName  string
	Grade     int
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func (a *App) validateStudent(s Student) (Student, error) {
	first, last, err := normalizeName(s.FirstName, s.LastName)
	if err != nil {
		return Student{}, err
	}
	if s.Grade < 1 || s.Grade > 12 {
		return Student{}, &ValidationError{Field: "grade", Msg: "You must select a grade"}
	}
	return Student{FirstName: first, LastName: last, Grade: s.Grade}, nil
}

func (a *App) checkOpen(action string, now time.Time) error {
	m := minuteOfDay(now)
	if m <= opensAt || m >= closesAt {
		a.logger.Warn("sign "+action+" attempted outside school hours", "time", now.Format(time.Kitchen))
		return ErrClosed
	}
	return nil
}

// StudentSignIn prints a late slip for a student arriving after the bell.
func (a *App) StudentSignIn(s Student) error {
	v, err := a.validateStudent(s)
	if err != nil {
		a.logger.Info("student failed to validate", "first", s.FirstName, "last", s.LastName, "error", err)
		return err
	}
	s = v

	if !a.debug {
		now := a.now()
		if err := a.checkOpen("in", now); err != nil {
			return err
		}
		m := minuteOfDay(now)
		if m < lateFrom {
			a.logger.Warn("late slip requested before the bell")
			return &WindowError{Err: ErrTooEarly, Msg: "It is earlier than 8:30, you don't need a late slip"}
		}
		if m > lateUntil {
			a.logger.Warn("late slip requested after the last period")
			return &WindowError{Err: ErrTooLate, Msg: "Hm... I think it's too late for that"}
		}
	}

	name := s.FirstName + " " + s.LastName
	a.logger.Debug("student came in late", "name", name, "grade", s.Grade)
	return a.PrintLateSlip(name)
}

// StudentSignOut records a student leaving early. Nothing is printed.
func (a *App) StudentSignOut(s Student) error {
	s, err := a.validateStudent(s)
	if err != nil {
		return err
	}

	if !a.debug {
		now := a.now()
		if err := a.checkOpen("out", now); err != nil {
			return err
		}
		m := minuteOfDay(now)
		if m < earlyOutFrom {
			a.logger.Warn("early sign out requested before the bell")
			return &WindowError{Err: ErrTooEarly, Msg: "Hm... I think it's too early for that"}
		}
		if m >= earlyOutBefore {
			a.logger.Warn("early sign out requested after dismissal")
			return &WindowError{Err: ErrTooLate, Msg: "It is later than 3:15, you don't need to sign out"}
		}
	}

	a.logger.Info("student left early", "name", s.FirstName+" "+s.LastName, "grade", s.Grade)
	return nil
}

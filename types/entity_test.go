package types

import (
	"testing"
	"time"
)

func TestNewEntity(t *testing.T) {
	e := NewEntity()
	if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Fatal("NewEntity() left a zero timestamp")
	}
	if !e.CreatedAt.Equal(e.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", e.CreatedAt, e.UpdatedAt)
	}
	if e.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", e.CreatedAt.Location())
	}
}

func TestEntityTouch(t *testing.T) {
	e := NewEntity()
	created := e.CreatedAt

	time.Sleep(time.Millisecond)
	e.Touch()

	if !e.CreatedAt.Equal(created) {
		t.Error("Touch() modified CreatedAt")
	}
	if !e.UpdatedAt.After(created) {
		t.Errorf("UpdatedAt %v not after CreatedAt %v", e.UpdatedAt, created)
	}
}

func TestEntityAge(t *testing.T) {
	e := Entity{CreatedAt: time.Now().UTC().Add(-time.Hour)}
	if age := e.Age(); age < time.Hour || age > time.Hour+time.Minute {
		t.Errorf("Age() = %v, want about an hour", age)
	}
}

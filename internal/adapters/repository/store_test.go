package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/shopspring/decimal"
)

func testRecord(handle, tid string, prize int64) model.TournamentRecord {
	return model.TournamentRecord{
		PlayerHandle: handle,
		TournamentID: tid,
		GameID:       "dota2",
		GameType:     "MOBA",
		EndDate:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		USDPrize:     decimal.NewFromInt(prize),
	}
}

func TestRecordStore_BasicOperations(t *testing.T) {
	in := []model.TournamentRecord{
		testRecord("zeta", "t1", 10),
		testRecord("alpha", "t1", 20),
		testRecord("zeta", "t2", 30),
	}
	store := NewRecordStore(in)

	if store.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", store.Len())
	}
	if got := store.Players(); len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("expected sorted players [alpha zeta], got %v", got)
	}

	zeta, err := store.ByPlayer("zeta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zeta) != 2 || zeta[0].TournamentID != "t1" || zeta[1].TournamentID != "t2" {
		t.Errorf("expected zeta records in load order, got %+v", zeta)
	}

	if _, err := store.ByPlayer("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordStore_Immutable(t *testing.T) {
	in := []model.TournamentRecord{testRecord("a", "t1", 1)}
	store := NewRecordStore(in)

	in[0].PlayerHandle = "mutated"
	if store.All()[0].PlayerHandle != "a" {
		t.Error("store shares its input slice")
	}

	all := store.All()
	_ = append(all, testRecord("b", "t2", 2))
	if store.Len() != 1 || len(store.All()) != 1 {
		t.Error("appending to All changed the store")
	}

	got, _ := store.ByPlayer("a")
	got[0].PlayerHandle = "changed"
	if store.All()[0].PlayerHandle != "a" {
		t.Error("ByPlayer returned shared records")
	}
}

func TestRecordStore_ByGameType(t *testing.T) {
	moba := testRecord("a", "t1", 1)
	moba.GameType = "MOBA"
	fps := testRecord("b", "t2", 200)
	fps.GameType = "FPS"
	unknown := testRecord("c", "t3", 300)
	unknown.GameType = model.Unknown
	store := NewRecordStore([]model.TournamentRecord{moba, fps, unknown, moba})

	got := store.ByGameType("MOBA")
	if len(got) != 2 || got[0].PlayerHandle != "a" {
		t.Errorf("expected both MOBA records, got %v", got)
	}
	if got := store.ByGameType(model.Unknown); len(got) != 1 || got[0].PlayerHandle != "c" {
		t.Errorf("expected the Unknown record, got %v", got)
	}
	if got := store.ByGameType("Racing"); len(got) != 0 {
		t.Errorf("expected no records, got %v", got)
	}

	got = store.ByGameType("FPS")
	got[0].PlayerHandle = "changed"
	if store.ByGameType("FPS")[0].PlayerHandle != "b" {
		t.Error("ByGameType returned shared records")
	}
}

package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/prizeboard/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		ctx := context.Background()
		d := dedupe.New(dedupe.WithCapacity(16))

		So(d.Size(), ShouldEqual, 0)

		Convey("When a key is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "player-1|t-1")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same key is recorded twice", func() {
			d.SeenAndRecord(ctx, "player-1|t-1")
			seen := d.SeenAndRecord(ctx, "player-1|t-1")

			Convey("Then the second call reports it as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a key is unrecorded", func() {
			d.SeenAndRecord(ctx, "k")
			d.Unrecord(ctx, "k")
			d.Unrecord(ctx, "missing")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "k"), ShouldBeFalse)
			})
		})

		Convey("When many goroutines record overlapping keys", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each key is new exactly once", func() {
				So(fresh, ShouldEqual, 100)
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given key parts", t, func() {
		Convey("Then distinct splits produce distinct keys", func() {
			So(dedupe.Key("ab", "c"), ShouldNotEqual, dedupe.Key("a", "bc"))
			So(dedupe.Key("a", "b"), ShouldEqual, dedupe.Key("a", "b"))
			So(dedupe.Key(), ShouldEqual, "")
		})
	})
}

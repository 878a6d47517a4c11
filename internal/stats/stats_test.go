package stats

import (
	"math"
	"testing"
	"time"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 6, day, hour, 15, 0, 0, time.UTC)
}

func item(id, author string, typ gallery.MediaType, created time.Time, reactions map[gallery.ReactionType]int) gallery.MediaItem {
	return gallery.MediaItem{ID: id, Author: author, Type: typ, CreatedAt: created, Reactions: reactions}
}

func sampleMedia() []gallery.MediaItem {
	return []gallery.MediaItem{
		item("m1", "Alice", gallery.MediaImage, at(14, 18), map[gallery.ReactionType]int{gallery.ReactionHeart: 3}),
		item("m2", "Bob", gallery.MediaVideo, at(14, 21), map[gallery.ReactionType]int{gallery.ReactionLaugh: 1}),
		item("m3", "Alice", gallery.MediaImage, at(15, 10), nil),
		item("m4", "Alice", gallery.MediaImage, at(14, 18), map[gallery.ReactionType]int{gallery.ReactionHeart: 1, gallery.ReactionWow: 1}),
	}
}

func TestCompute_Totals(t *testing.T) {
	media := sampleMedia()
	media[0].FavoriteCount = 2
	msgs := []gallery.Message{{ID: "g1"}, {ID: "g2"}}

	st := Compute(media, msgs, time.UTC)

	if st.TotalPhotos != 3 || st.TotalVideos != 1 || st.TotalMedia != 4 {
		t.Fatalf("unexpected media counts: %+v", st)
	}
	if st.TotalMessages != 2 || st.TotalFavorites != 2 || st.TotalReactions != 6 {
		t.Fatalf("unexpected totals: messages=%d favorites=%d reactions=%d", st.TotalMessages, st.TotalFavorites, st.TotalReactions)
	}
	if st.EstimatedStorageMB != 59 {
		t.Fatalf("expected 59 MB, got %v", st.EstimatedStorageMB)
	}
	if st.EstimatedStorageGB != 0.06 {
		t.Fatalf("expected 0.06 GB, got %v", st.EstimatedStorageGB)
	}
	if st.PhotoVideoRatio.Photos != 75 || st.PhotoVideoRatio.Videos != 25 {
		t.Fatalf("unexpected ratio: %+v", st.PhotoVideoRatio)
	}
}

func TestCompute_Uploaders(t *testing.T) {
	st := Compute(sampleMedia(), nil, time.UTC)

	if st.UniqueUploaders != 2 || len(st.TopUploaders) != 2 {
		t.Fatalf("expected 2 uploaders, got %d", st.UniqueUploaders)
	}
	alice := st.TopUploaders[0]
	if alice.Name != "Alice" || alice.PhotoCount != 3 || alice.TotalCount != 3 || alice.TotalReactions != 5 {
		t.Fatalf("unexpected top uploader: %+v", alice)
	}
	if alice.Percentage != 75 {
		t.Fatalf("expected 75%%, got %v", alice.Percentage)
	}
	if st.TopUploaders[1].Name != "Bob" || st.TopUploaders[1].VideoCount != 1 {
		t.Fatalf("unexpected second uploader: %+v", st.TopUploaders[1])
	}
}

func TestCompute_UploaderPercentagesFractional(t *testing.T) {
	media := []gallery.MediaItem{
		item("m1", "A", gallery.MediaImage, at(14, 18), nil),
		item("m2", "A", gallery.MediaImage, at(14, 19), nil),
		item("m3", "B", gallery.MediaImage, at(14, 20), nil),
	}

	st := Compute(media, nil, time.UTC)

	if len(st.TopUploaders) != 2 {
		t.Fatalf("expected 2 uploaders, got %d", len(st.TopUploaders))
	}
	a, b := st.TopUploaders[0], st.TopUploaders[1]
	if a.Name != "A" || math.Abs(a.Percentage-66.67) > 0.01 {
		t.Fatalf("expected A at about 66.67%%, got %+v", a)
	}
	if b.Name != "B" || math.Abs(b.Percentage-33.33) > 0.01 {
		t.Fatalf("expected B at about 33.33%%, got %+v", b)
	}
}

func TestCompute_TimeBuckets(t *testing.T) {
	st := Compute(sampleMedia(), nil, time.UTC)

	if len(st.UploadsByDay) != 2 {
		t.Fatalf("expected 2 days, got %d", len(st.UploadsByDay))
	}
	first := st.UploadsByDay[0]
	if first.Date != "2026-06-14" || first.Label != "14/06/2026" || first.Count != 3 || first.Photos != 2 || first.Videos != 1 {
		t.Fatalf("unexpected first day: %+v", first)
	}
	if st.PeakUploadDay != "14/06/2026" || st.PeakUploadCount != 3 {
		t.Fatalf("unexpected peak day: %s (%d)", st.PeakUploadDay, st.PeakUploadCount)
	}

	if len(st.UploadsByHour) != 24 {
		t.Fatalf("expected 24 hour buckets, got %d", len(st.UploadsByHour))
	}
	if st.UploadsByHour[18].Count != 2 || st.UploadsByHour[0].Count != 0 {
		t.Fatalf("unexpected hour buckets: 18h=%d 0h=%d", st.UploadsByHour[18].Count, st.UploadsByHour[0].Count)
	}
	if st.PeakUploadHour != 18 || st.PeakHourCount != 2 {
		t.Fatalf("unexpected peak hour: %d (%d)", st.PeakUploadHour, st.PeakHourCount)
	}
}

func TestCompute_TimeBucketsFollowLocation(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	media := []gallery.MediaItem{item("m1", "Alice", gallery.MediaImage, time.Date(2026, 6, 14, 23, 30, 0, 0, time.UTC), nil)}

	st := Compute(media, nil, paris)
	if st.UploadsByDay[0].Date != "2026-06-15" || st.UploadsByHour[1].Count != 1 {
		t.Fatalf("expected bucket in local time, got day %s", st.UploadsByDay[0].Date)
	}
}

func TestCompute_Reactions(t *testing.T) {
	st := Compute(sampleMedia(), nil, time.UTC)

	if len(st.ReactionBreakdown) != 3 {
		t.Fatalf("expected 3 reaction types, got %d", len(st.ReactionBreakdown))
	}
	heart := st.ReactionBreakdown[0]
	if heart.Type != gallery.ReactionHeart || heart.Count != 4 || heart.Emoji != "❤️" {
		t.Fatalf("unexpected top reaction: %+v", heart)
	}

	sum := 0.0
	for _, r := range st.ReactionBreakdown {
		sum += r.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("expected percentages to sum to 100, got %v", sum)
	}

	top := st.MostReactedPhotos
	if len(top) != 4 || top[0].Media.ID != "m1" || top[0].ReactionCount != 3 {
		t.Fatalf("unexpected most reacted: %+v", top)
	}
	if top[1].Media.ID != "m4" || top[2].Media.ID != "m2" {
		t.Fatalf("expected stable ordering [m1 m4 m2 m3], got [%s %s %s]", top[0].Media.ID, top[1].Media.ID, top[2].Media.ID)
	}
}

func TestCompute_MostReactedCapped(t *testing.T) {
	var media []gallery.MediaItem
	for i := 0; i < 8; i++ {
		media = append(media, item(string(rune('a'+i)), "Alice", gallery.MediaImage, at(14, 12), map[gallery.ReactionType]int{gallery.ReactionClap: i}))
	}

	top := Compute(media, nil, time.UTC).MostReactedPhotos
	if len(top) != 5 {
		t.Fatalf("expected 5 items, got %d", len(top))
	}
	if top[0].ReactionCount != 7 || top[4].ReactionCount != 3 {
		t.Fatalf("unexpected ranking: first=%d last=%d", top[0].ReactionCount, top[4].ReactionCount)
	}
}

func TestCompute_Empty(t *testing.T) {
	st := Compute(nil, nil, nil)

	if st.PeakUploadDay != "N/A" || st.PeakUploadCount != 0 {
		t.Fatalf("expected N/A peak day, got %q (%d)", st.PeakUploadDay, st.PeakUploadCount)
	}
	if st.PeakUploadHour != 0 || st.PeakHourCount != 0 {
		t.Fatalf("expected hour 0 with count 0, got %d (%d)", st.PeakUploadHour, st.PeakHourCount)
	}
	if st.PhotoVideoRatio.Photos != 0 || st.PhotoVideoRatio.Videos != 0 {
		t.Fatalf("expected zero ratio, got %+v", st.PhotoVideoRatio)
	}
	if len(st.UploadsByHour) != 24 || len(st.TopUploaders) != 0 || len(st.ReactionBreakdown) != 0 {
		t.Fatalf("unexpected buckets for empty input: %+v", st)
	}
	if st.EstimatedStorageMB != 0 || st.EstimatedStorageGB != 0 {
		t.Fatalf("expected no storage, got %v MB", st.EstimatedStorageMB)
	}
}

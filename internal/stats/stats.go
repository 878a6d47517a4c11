// Package stats derives dashboard analytics from a wedding's media and
// guestbook messages. Everything here is pure computation over in-memory
// slices.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
)

// Per-item storage estimates in MB.
const (
	PhotoSizeMB = 3
	VideoSizeMB = 50

	topReactedLimit = 5
	noPeakDay       = "N/A"
)

type UploaderStats struct {
	Name           string  `json:"name"`
	PhotoCount     int     `json:"photoCount"`
	VideoCount     int     `json:"videoCount"`
	TotalCount     int     `json:"totalCount"`
	TotalReactions int     `json:"totalReactions"`
	Percentage     float64 `json:"percentage"`
}

type DayBucket struct {
	Date   string `json:"date"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Photos int    `json:"photos"`
	Videos int    `json:"videos"`
}

type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type ReactionStats struct {
	Type       gallery.ReactionType `json:"type"`
	Emoji      string               `json:"emoji"`
	Count      int                  `json:"count"`
	Percentage float64              `json:"percentage"`
}

type ReactedMedia struct {
	Media         gallery.MediaItem `json:"media"`
	ReactionCount int               `json:"reactionCount"`
}

type Ratio struct {
	Photos float64 `json:"photos"`
	Videos float64 `json:"videos"`
}

type EnhancedStatistics struct {
	TotalPhotos    int `json:"totalPhotos"`
	TotalVideos    int `json:"totalVideos"`
	TotalMedia     int `json:"totalMedia"`
	TotalMessages  int `json:"totalMessages"`
	TotalFavorites int `json:"totalFavorites"`
	TotalReactions int `json:"totalReactions"`

	EstimatedStorageMB float64 `json:"estimatedStorageMB"`
	EstimatedStorageGB float64 `json:"estimatedStorageGB"`

	TopUploaders    []UploaderStats `json:"topUploaders"`
	UniqueUploaders int             `json:"uniqueUploaders"`

	UploadsByDay  []DayBucket  `json:"uploadsByDay"`
	UploadsByHour []HourBucket `json:"uploadsByHour"`

	ReactionBreakdown []ReactionStats `json:"reactionBreakdown"`
	MostReactedPhotos []ReactedMedia  `json:"mostReactedPhotos"`

	PhotoVideoRatio Ratio `json:"photoVideoRatio"`

	PeakUploadDay   string `json:"peakUploadDay"`
	PeakUploadCount int    `json:"peakUploadCount"`
	PeakUploadHour  int    `json:"peakUploadHour"`
	PeakHourCount   int    `json:"peakHourCount"`
}

// Compute builds the statistics snapshot. Day and hour buckets use loc;
// a nil loc means time.Local. Inputs are not modified.
func Compute(media []gallery.MediaItem, messages []gallery.Message, loc *time.Location) EnhancedStatistics {
	if loc == nil {
		loc = time.Local
	}

	st := EnhancedStatistics{
		TotalMedia:    len(media),
		TotalMessages: len(messages),
	}

	for _, m := range media {
		switch m.Type {
		case gallery.MediaImage:
			st.TotalPhotos++
		case gallery.MediaVideo:
			st.TotalVideos++
		}
		st.TotalFavorites += m.FavoriteCount
		st.TotalReactions += m.TotalReactions()
	}

	mb := float64(st.TotalPhotos*PhotoSizeMB + st.TotalVideos*VideoSizeMB)
	st.EstimatedStorageMB = round(mb, 1)
	st.EstimatedStorageGB = round(mb/1024, 2)

	st.TopUploaders = uploaders(media)
	st.UniqueUploaders = len(st.TopUploaders)
	st.UploadsByDay = byDay(media, loc)
	st.UploadsByHour = byHour(media, loc)
	st.ReactionBreakdown = reactionBreakdown(media, st.TotalReactions)
	st.MostReactedPhotos = mostReacted(media)
	st.PhotoVideoRatio = Ratio{
		Photos: percent(st.TotalPhotos, st.TotalMedia),
		Videos: percent(st.TotalVideos, st.TotalMedia),
	}

	st.PeakUploadDay = noPeakDay
	for _, d := range st.UploadsByDay {
		if d.Count > st.PeakUploadCount {
			st.PeakUploadDay = d.Label
			st.PeakUploadCount = d.Count
		}
	}
	for _, h := range st.UploadsByHour {
		if h.Count > st.PeakHourCount {
			st.PeakUploadHour = h.Hour
			st.PeakHourCount = h.Count
		}
	}

	return st
}

func uploaders(media []gallery.MediaItem) []UploaderStats {
	index := make(map[string]int)
	list := make([]UploaderStats, 0)
	for _, m := range media {
		i, ok := index[m.Author]
		if !ok {
			i = len(list)
			index[m.Author] = i
			list = append(list, UploaderStats{Name: m.Author})
		}
		u := &list[i]
		switch m.Type {
		case gallery.MediaImage:
			u.PhotoCount++
		case gallery.MediaVideo:
			u.VideoCount++
		}
		u.TotalCount++
		u.TotalReactions += m.TotalReactions()
	}

	for i := range list {
		list[i].Percentage = percent(list[i].TotalCount, len(media))
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].TotalCount > list[j].TotalCount
	})
	return list
}

func byDay(media []gallery.MediaItem, loc *time.Location) []DayBucket {
	index := make(map[string]int)
	days := make([]DayBucket, 0)
	for _, m := range media {
		t := m.CreatedAt.In(loc)
		key := t.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, DayBucket{Date: key, Label: t.Format("02/01/2006")})
		}
		days[i].Count++
		switch m.Type {
		case gallery.MediaImage:
			days[i].Photos++
		case gallery.MediaVideo:
			days[i].Videos++
		}
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}

func byHour(media []gallery.MediaItem, loc *time.Location) []HourBucket {
	hours := make([]HourBucket, 24)
	for h := range hours {
		hours[h].Hour = h
	}
	for _, m := range media {
		hours[m.CreatedAt.In(loc).Hour()].Count++
	}
	return hours
}

func reactionBreakdown(media []gallery.MediaItem, total int) []ReactionStats {
	counts := make(map[gallery.ReactionType]int)
	for _, m := range media {
		for r, n := range m.Reactions {
			counts[r] += n
		}
	}

	out := make([]ReactionStats, 0, len(counts))
	for r, n := range counts {
		out = append(out, ReactionStats{
			Type:       r,
			Emoji:      r.Emoji(),
			Count:      n,
			Percentage: percent(n, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func mostReacted(media []gallery.MediaItem) []ReactedMedia {
	ranked := make([]ReactedMedia, len(media))
	for i, m := range media {
		ranked[i] = ReactedMedia{Media: m, ReactionCount: m.TotalReactions()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ReactionCount > ranked[j].ReactionCount
	})
	if len(ranked) > topReactedLimit {
		ranked = ranked[:topReactedLimit]
	}
	return ranked
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

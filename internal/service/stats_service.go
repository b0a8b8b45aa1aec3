package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/pubmap/areas-backend-go/internal/cluster"
	"github.com/pubmap/areas-backend-go/internal/normalize"
	"github.com/pubmap/areas-backend-go/internal/repository"
)

// StatsService computes area and borough statistics over the venue store
type StatsService struct {
	venues *repository.VenueRepository
}

// NewStatsService creates a new stats service
func NewStatsService(venues *repository.VenueRepository) *StatsService {
	return &StatsService{venues: venues}
}

// AreaStat is the venue count for one area
type AreaStat struct {
	Area       string `json:"area"`
	VenueCount int    `json:"venue_count"`
}

// BoroughStats groups a borough's areas with their venue counts
type BoroughStats struct {
	Borough    string     `json:"borough"`
	Valid      bool       `json:"valid_london_borough"`
	VenueCount int        `json:"venue_count"`
	Areas      []AreaStat `json:"areas"`
}

// UnresolvedVenue is a venue without an area whose address carries a
// postcode a geocoding pass could resolve
type UnresolvedVenue struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
}

// AreaStatistics is the full statistics report
type AreaStatistics struct {
	TotalVenues     int               `json:"total_venues"`
	Boroughs        []BoroughStats    `json:"boroughs"`
	MissingBorough  int               `json:"missing_borough"`
	MissingArea     int               `json:"missing_area"`
	InvalidBoroughs []string          `json:"invalid_boroughs,omitempty"`
	Resolvable      []UnresolvedVenue `json:"resolvable_by_postcode,omitempty"`
}

// Sort orders for AreaStatistics
const (
	SortByName  = "name"
	SortByCount = "count"
)

// AreaStatistics groups venues by borough then area. Areas with fewer than
// minVenues members are filtered out of the listing (0 keeps everything);
// sortBy orders each borough's areas by name or by descending count.
func (s *StatsService) AreaStatistics(ctx context.Context, minVenues int, sortBy string) (*AreaStatistics, error) {
	if sortBy != SortByCount {
		sortBy = SortByName
	}

	venues, err := s.venues.FetchAllVenues(ctx)
	if err != nil && len(venues) == 0 {
		return nil, fmt.Errorf("failed to fetch venues: %w", err)
	}

	stats := &AreaStatistics{TotalVenues: len(venues)}

	byBorough := make(map[string]map[string]int)
	invalid := make(map[string]bool)

	for _, v := range venues {
		borough := cluster.NormalizeLabel(v.Borough)
		area := cluster.NormalizeLabel(v.Area)

		if area == "" {
			stats.MissingArea++
			if postcode := normalize.ExtractPostcode(v.Address); postcode != "" {
				stats.Resolvable = append(stats.Resolvable, UnresolvedVenue{
					ID:       v.ID,
					Name:     v.Name,
					Postcode: postcode,
				})
			}
			continue
		}
		if borough == "" {
			stats.MissingBorough++
			continue
		}

		if !normalize.IsValidLondonBorough(borough) {
			invalid[borough] = true
		}

		if byBorough[borough] == nil {
			byBorough[borough] = make(map[string]int)
		}
		byBorough[borough][area]++
	}

	boroughs := make([]string, 0, len(byBorough))
	for b := range byBorough {
		boroughs = append(boroughs, b)
	}
	sort.Strings(boroughs)

	for _, b := range boroughs {
		bs := BoroughStats{
			Borough: b,
			Valid:   normalize.IsValidLondonBorough(b),
		}
		for area, count := range byBorough[b] {
			bs.VenueCount += count
			if minVenues > 0 && count < minVenues {
				continue
			}
			bs.Areas = append(bs.Areas, AreaStat{Area: area, VenueCount: count})
		}

		switch sortBy {
		case SortByCount:
			sort.Slice(bs.Areas, func(i, j int) bool {
				if bs.Areas[i].VenueCount != bs.Areas[j].VenueCount {
					return bs.Areas[i].VenueCount > bs.Areas[j].VenueCount
				}
				return bs.Areas[i].Area < bs.Areas[j].Area
			})
		default:
			sort.Slice(bs.Areas, func(i, j int) bool {
				return bs.Areas[i].Area < bs.Areas[j].Area
			})
		}

		stats.Boroughs = append(stats.Boroughs, bs)
	}

	for b := range invalid {
		stats.InvalidBoroughs = append(stats.InvalidBoroughs, b)
	}
	sort.Strings(stats.InvalidBoroughs)

	return stats, nil
}

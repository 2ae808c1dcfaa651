package models

import "time"

type UserFilters struct {
	Search    string `json:"search"`
	Status    string `json:"status"`
	DateRange string `json:"dateRange"`
}

// ListUsersRequest accepts filters either nested under "filters" or at the
// top level, as older admin panels sent them flat.
type ListUsersRequest struct {
	CurrentUser ActorRef    `json:"currentUser"`
	Filters     UserFilters `json:"filters"`
	Search      string      `json:"search"`
	Status      string      `json:"status"`
	DateRange   string      `json:"dateRange"`
	Sort        string      `json:"sort"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
}

func (r ListUsersRequest) EffectiveFilters() UserFilters {
	f := r.Filters
	if f.Search == "" {
		f.Search = r.Search
	}
	if f.Status == "" {
		f.Status = r.Status
	}
	if f.DateRange == "" {
		f.DateRange = r.DateRange
	}
	return f
}

type UpdateUserRequest struct {
	AdminUsername string `json:"adminUsername"`
	Username      string `json:"username" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

type DeleteUserRequest struct {
	AdminUsername string `json:"adminUsername"`
	Username      string `json:"username" binding:"required"`
}

type BulkDeleteRequest struct {
	AdminUsername string   `json:"adminUsername"`
	Usernames     []string `json:"usernames"`
}

type BulkUpdateStatusRequest struct {
	AdminUsername string   `json:"adminUsername"`
	Usernames     []string `json:"usernames"`
	Status        string   `json:"status"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Statistics struct {
	TotalUsers        int          `json:"totalUsers"`
	RegularUsers      int          `json:"regularUsers"`
	MangakaUsers      int          `json:"mangakaUsers"`
	AdminUsers        int          `json:"adminUsers"`
	CountsByRole      map[Role]int `json:"countsByRole"`
	RegistrationChart []DailyCount `json:"registrationChart"`
	GeneratedAt       time.Time    `json:"generatedAt"`
}

type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/service"
)

// addLocationRequest is decoded strictly: trackers occasionally change
// their payloads and a silent field drop would corrupt history.
type addLocationRequest struct {
	Password    string  `json:"password"`
	URL         string  `json:"url"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

type locationResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	URL         string    `json:"url,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	DisplayName string    `json:"displayName,omitempty"`
	Road        *string   `json:"road,omitempty"`
	City        *string   `json:"city,omitempty"`
	Country     *string   `json:"country,omitempty"`
	InsertedAt  time.Time `json:"insertedAt"`
}

func toLocationResponse(record models.LocationRecord) locationResponse {
	return locationResponse{
		ID:          record.ID,
		UserID:      record.UserID,
		URL:         record.URL,
		Latitude:    record.Latitude,
		Longitude:   record.Longitude,
		DisplayName: record.DisplayName,
		Road:        record.Road,
		City:        record.City,
		Country:     record.Country,
		InsertedAt:  record.InsertedAt,
	}
}

func (h HandlerSet) AddLocation(c *gin.Context) {
	userID := c.Param("userId")

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	var req addLocationRequest
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	if err := h.locations.AuthenticateIntake(c.Request.Context(), userID, req.Password); err != nil {
		h.respondError(c, err)
		return
	}

	record, err := h.locations.Add(c.Request.Context(), service.AddLocationInput{
		UserID:      userID,
		URL:         req.URL,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLocationResponse(record))
}

func (h HandlerSet) LocationHistory(c *gin.Context) {
	if _, ok := h.currentUser(c); !ok {
		return
	}

	records, err := h.locations.History(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]locationResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toLocationResponse(record))
	}
	c.JSON(http.StatusOK, gin.H{"locations": out})
}

package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"street-bites-go/models"
)

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

type ScheduleSlotRequest struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsActive  *bool  `json:"is_active"`
}

type CreateLocationRequest struct {
	Name      string                `json:"name" binding:"required,max=100"`
	Address   string                `json:"address" binding:"required,max=200"`
	Latitude  float64               `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64               `json:"longitude" binding:"gte=-180,lte=180"`
	Schedule  []ScheduleSlotRequest `json:"schedule"`
}

type UpdateLocationRequest struct {
	Name      *string                `json:"name" binding:"omitempty,min=1,max=100"`
	Address   *string                `json:"address" binding:"omitempty,min=1,max=200"`
	Latitude  *float64               `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64               `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	IsActive  *bool                  `json:"is_active"`
	Schedule  *[]ScheduleSlotRequest `json:"schedule"`
}

func validScheduleDay(day string) bool {
	for _, d := range models.ScheduleDays {
		if d == day {
			return true
		}
	}
	return false
}

func buildSchedule(slots []ScheduleSlotRequest) ([]models.ScheduleSlot, string) {
	schedule := make([]models.ScheduleSlot, 0, len(slots))
	for _, slot := range slots {
		if !validScheduleDay(slot.Day) {
			return nil, "Invalid schedule day: " + slot.Day
		}
		if !clockPattern.MatchString(slot.StartTime) || !clockPattern.MatchString(slot.EndTime) {
			return nil, "Schedule times must be in HH:MM format"
		}
		active := true
		if slot.IsActive != nil {
			active = *slot.IsActive
		}
		schedule = append(schedule, models.ScheduleSlot{
			Day:       slot.Day,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			IsActive:  active,
		})
	}
	return schedule, ""
}

// ListLocationsHandler returns all locations, optionally ?active=true (public).
func ListLocationsHandler(c *gin.Context) {
	query := DB.Preload("Schedule")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var locations []models.Location
	if err := query.Order("name ASC").Find(&locations).Error; err != nil {
		respondServerError(c, "Failed to list locations", err)
		return
	}

	if locations == nil {
		locations = []models.Location{}
	}
	respondData(c, http.StatusOK, locations)
}

// ActiveLocationsHandler returns only active locations (public).
func ActiveLocationsHandler(c *gin.Context) {
	var locations []models.Location
	err := DB.Preload("Schedule").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&locations).Error
	if err != nil {
		respondServerError(c, "Failed to list locations", err)
		return
	}

	if locations == nil {
		locations = []models.Location{}
	}
	respondData(c, http.StatusOK, locations)
}

// GetLocationHandler returns a single location with its schedule (public).
func GetLocationHandler(c *gin.Context) {
	var location models.Location
	if err := DB.Preload("Schedule").First(&location, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Location not found")
			return
		}
		respondServerError(c, "Failed to load location", err)
		return
	}

	respondData(c, http.StatusOK, location)
}

// CreateLocationHandler adds a truck location (admin).
func CreateLocationHandler(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	schedule, problem := buildSchedule(req.Schedule)
	if problem != "" {
		respondError(c, http.StatusBadRequest, problem)
		return
	}

	location := models.Location{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsActive:  true,
		Schedule:  schedule,
	}
	if err := DB.Create(&location).Error; err != nil {
		respondServerError(c, "Failed to create location", err)
		return
	}

	respondMessage(c, http.StatusCreated, "Location created successfully", location)
}

// UpdateLocationHandler applies a partial update; a supplied schedule replaces
// the existing slots wholesale (admin).
func UpdateLocationHandler(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var location models.Location
	if err := DB.First(&location, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Location not found")
			return
		}
		respondServerError(c, "Failed to load location", err)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	var newSchedule []models.ScheduleSlot
	if req.Schedule != nil {
		schedule, problem := buildSchedule(*req.Schedule)
		if problem != "" {
			respondError(c, http.StatusBadRequest, problem)
			return
		}
		newSchedule = schedule
	}

	if len(updates) == 0 && req.Schedule == nil {
		respondError(c, http.StatusBadRequest, "No update fields provided")
		return
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&location).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Schedule != nil {
			if err := tx.Where("location_id = ?", location.ID).Delete(&models.ScheduleSlot{}).Error; err != nil {
				return err
			}
			for i := range newSchedule {
				newSchedule[i].LocationID = location.ID
			}
			if len(newSchedule) > 0 {
				if err := tx.Create(&newSchedule).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		respondServerError(c, "Failed to update location", err)
		return
	}

	if err := DB.Preload("Schedule").First(&location, location.ID).Error; err != nil {
		respondServerError(c, "Failed to reload location", err)
		return
	}
	respondMessage(c, http.StatusOK, "Location updated successfully", location)
}

// DeleteLocationHandler removes a location and its schedule (admin).
func DeleteLocationHandler(c *gin.Context) {
	var location models.Location
	if err := DB.First(&location, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Location not found")
			return
		}
		respondServerError(c, "Failed to load location", err)
		return
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", location.ID).Delete(&models.ScheduleSlot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&location).Error
	})
	if err != nil {
		respondServerError(c, "Failed to delete location", err)
		return
	}

	respondMessage(c, http.StatusOK, "Location deleted successfully", nil)
}

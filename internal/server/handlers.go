package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Admin API

type createOrganizationRequest struct {
	Name            string `json:"name"`
	Timezone        string `json:"timezone"`
	SupervisorEmail string `json:"supervisor_email"`
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Timezone == "" {
		respondError(w, http.StatusBadRequest, "name and timezone are required")
		return
	}

	id, err := s.db.CreateOrganization(req.Name, req.Timezone, req.SupervisorEmail)
	if err != nil {
		fmt.Printf("Error creating organization: %v\n", err)
		respondError(w, http.StatusInternalServerError, "failed to create organization")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid organization id")
		return
	}

	org, err := s.db.GetOrganization(id)
	if err != nil {
		fmt.Printf("Error getting organization: %v\n", err)
		respondError(w, http.StatusInternalServerError, "failed to get organization")
		return
	}
	if org == nil {
		respondError(w, http.StatusNotFound, "organization not found")
		return
	}

	respondJSON(w, http.StatusOK, org)
}

type createEmployeeRequest struct {
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Shift          string `json:"shift"`
	Station        string `json:"station"`
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrganizationID == 0 || req.Name == "" || req.Phone == "" {
		respondError(w, http.StatusBadRequest, "organization_id, name and phone are required")
		return
	}

	id, err := s.db.CreateEmployee(req.OrganizationID, req.Name, req.Phone, req.Shift, req.Station)
	if err != nil {
		fmt.Printf("Error creating employee: %v\n", err)
		respondError(w, http.StatusInternalServerError, "failed to create employee")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	emp, err := s.db.GetEmployeeByID(id)
	if err != nil {
		fmt.Printf("Error getting employee: %v\n", err)
		respondError(w, http.StatusInternalServerError, "failed to get employee")
		return
	}
	if emp == nil {
		respondError(w, http.StatusNotFound, "employee not found")
		return
	}

	respondJSON(w, http.StatusOK, emp)
}

func (s *Server) handleEmployeeAbsences(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	absences, err := s.db.GetAbsencesForEmployee(id, limit)
	if err != nil {
		fmt.Printf("Error listing absences: %v\n", err)
		respondError(w, http.StatusInternalServerError, "failed to list absences")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"absences": absences})
}

func (s *Server) handleOrganizationAbsences(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid organization id")
		return
	}

	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	absences, err := s.db.GetAbsencesForDate(id, day)
	if err != nil {
		fmt.Printf("Error listing absences: %v\n", err)
		respondError(w, http.StatusInternalServerError, "failed to list absences")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"absences": absences})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

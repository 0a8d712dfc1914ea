package http

import (
	"context"
	"net/http"
	"time"

	"accessd/internal/domain"
	"accessd/internal/usecase"

	"github.com/gin-gonic/gin"
)

const dateFormat = "2006-01-02"

type applicationResponse struct {
	ID                   string     `json:"id"`
	ApplicantName        string     `json:"applicant_name"`
	ApplicantPhone       string     `json:"applicant_phone"`
	Gender               string     `json:"gender,omitempty"`
	Nationality          string     `json:"nationality,omitempty"`
	PassportNumber       string     `json:"passport_number,omitempty"`
	CompanyName          string     `json:"company_name"`
	CompanyID            string     `json:"company_id,omitempty"`
	ProjectID            string     `json:"project_id,omitempty"`
	VisitDate            string     `json:"visit_date"`
	IsSiteRepresentative bool       `json:"is_site_representative"`
	IsVehicleOwner       bool       `json:"is_vehicle_owner"`
	VehicleNumber        string     `json:"vehicle_number,omitempty"`
	VehicleType          string     `json:"vehicle_type,omitempty"`
	AgreedOn             *time.Time `json:"agreed_on,omitempty"`
	Signature            string     `json:"signature,omitempty"`
	Status               string     `json:"status"`
	QRID                 string     `json:"qrid,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func toApplicationResponse(app domain.Application) applicationResponse {
	return applicationResponse{
		ID:                   app.ID,
		ApplicantName:        app.ApplicantName,
		ApplicantPhone:       app.ApplicantPhone,
		Gender:               app.Gender,
		Nationality:          app.Nationality,
		PassportNumber:       app.PassportNumber,
		CompanyName:          app.CompanyName,
		CompanyID:            app.CompanyID,
		ProjectID:            app.ProjectID,
		VisitDate:            app.VisitDate.Format(dateFormat),
		IsSiteRepresentative: app.IsSiteRepresentative,
		IsVehicleOwner:       app.IsVehicleOwner,
		VehicleNumber:        app.VehicleNumber,
		VehicleType:          app.VehicleType,
		AgreedOn:             app.AgreedOn,
		Signature:            app.Signature,
		Status:               string(app.Status),
		QRID:                 app.QRID,
		CreatedAt:            app.CreatedAt,
	}
}

func toApplicationResponses(apps []domain.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	return out
}

type submitApplicationRequest struct {
	ApplicantName        string     `json:"applicant_name"`
	ApplicantPhone       string     `json:"applicant_phone"`
	Gender               string     `json:"gender"`
	Nationality          string     `json:"nationality"`
	PassportNumber       string     `json:"passport_number"`
	CompanyName          string     `json:"company_name"`
	ProjectID            string     `json:"project_id"`
	VisitDate            string     `json:"visit_date"`
	IsSiteRepresentative bool       `json:"is_site_representative"`
	IsVehicleOwner       bool       `json:"is_vehicle_owner"`
	VehicleNumber        string     `json:"vehicle_number"`
	VehicleType          string     `json:"vehicle_type"`
	AgreedOn             *time.Time `json:"agreed_on"`
	Signature            string     `json:"signature"`
}

func (s *Server) handleSubmitApplication(c *gin.Context) {
	var req submitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	visitDate, err := parseDate(req.VisitDate)
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "visit_date must be YYYY-MM-DD")
		return
	}
	app, err := s.apps.Submit(c.Request.Context(), s.sessionFrom(c), usecase.SubmitApplicationInput{
		ApplicantName:        req.ApplicantName,
		ApplicantPhone:       req.ApplicantPhone,
		Gender:               req.Gender,
		Nationality:          req.Nationality,
		PassportNumber:       req.PassportNumber,
		CompanyName:          req.CompanyName,
		ProjectID:            req.ProjectID,
		VisitDate:            visitDate,
		IsSiteRepresentative: req.IsSiteRepresentative,
		IsVehicleOwner:       req.IsVehicleOwner,
		VehicleNumber:        req.VehicleNumber,
		VehicleType:          req.VehicleType,
		AgreedOn:             req.AgreedOn,
		Signature:            req.Signature,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toApplicationResponse(app))
}

func (s *Server) handleListApplications(c *gin.Context) {
	filter := usecase.ApplicationFilter{
		Status: domain.ApplicationStatus(c.Query("status")),
		Query:  c.Query("q"),
	}
	apps, err := s.apps.List(c.Request.Context(), s.sessionFrom(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": toApplicationResponses(apps)})
}

func (s *Server) handleApplicationsByIdentity(c *gin.Context) {
	apps, err := s.apps.GetByIdentity(c.Request.Context(), s.sessionFrom(c), c.Query("name"), c.Query("phone"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": toApplicationResponses(apps)})
}

type updateApplicationRequest struct {
	ApplicantName        *string `json:"applicant_name"`
	ApplicantPhone       *string `json:"applicant_phone"`
	Gender               *string `json:"gender"`
	Nationality          *string `json:"nationality"`
	PassportNumber       *string `json:"passport_number"`
	CompanyName          *string `json:"company_name"`
	ProjectID            *string `json:"project_id"`
	VisitDate            *string `json:"visit_date"`
	IsSiteRepresentative *bool   `json:"is_site_representative"`
	IsVehicleOwner       *bool   `json:"is_vehicle_owner"`
	VehicleNumber        *string `json:"vehicle_number"`
	VehicleType          *string `json:"vehicle_type"`
}

func (s *Server) handleUpdateApplication(c *gin.Context) {
	var req updateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	input := usecase.UpdateApplicationInput{
		ApplicantName:        req.ApplicantName,
		ApplicantPhone:       req.ApplicantPhone,
		Gender:               req.Gender,
		Nationality:          req.Nationality,
		PassportNumber:       req.PassportNumber,
		CompanyName:          req.CompanyName,
		ProjectID:            req.ProjectID,
		IsSiteRepresentative: req.IsSiteRepresentative,
		IsVehicleOwner:       req.IsVehicleOwner,
		VehicleNumber:        req.VehicleNumber,
		VehicleType:          req.VehicleType,
	}
	if req.VisitDate != nil {
		visitDate, err := parseDate(*req.VisitDate)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "visit_date must be YYYY-MM-DD")
			return
		}
		input.VisitDate = &visitDate
	}
	app, err := s.apps.Update(c.Request.Context(), s.sessionFrom(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponse(app))
}

func (s *Server) handleDeleteApplication(c *gin.Context) {
	if err := s.apps.Delete(c.Request.Context(), s.sessionFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

type decisionRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleApprove(c *gin.Context) {
	s.handleDecision(c, s.apps.Approve)
}

func (s *Server) handleReject(c *gin.Context) {
	s.handleDecision(c, s.apps.Reject)
}

func (s *Server) handleDecision(c *gin.Context, decide func(ctx context.Context, session domain.Session, ids []string) ([]domain.Application, error)) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if len(req.IDs) == 0 {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "ids are required")
		return
	}
	apps, err := decide(c.Request.Context(), s.sessionFrom(c), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applications": toApplicationResponses(apps),
		"requested":    len(req.IDs),
		"updated":      len(apps),
	})
}

type scanRequest struct {
	Token string `json:"token"`
}

type scanResponse struct {
	ApplicantName string `json:"applicant_name"`
	EventType     string `json:"event_type"`
	Status        string `json:"status"`
}

func (s *Server) handleScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	result, err := s.ledger.Scan(c.Request.Context(), s.sessionFrom(c), req.Token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scanResponse{
		ApplicantName: result.ApplicantName,
		EventType:     string(result.EventType),
		Status:        string(result.Status),
	})
}

type dashboardResponse struct {
	DailyStats   []dailyStatResponse `json:"daily_stats"`
	OnSiteNow    int                 `json:"on_site_now"`
	ExitedToday  int                 `json:"exited_today"`
	StatusCounts statusCountsBody    `json:"status_counts"`
}

type dailyStatResponse struct {
	Date    string `json:"date"`
	Entered int    `json:"entered"`
	Exited  int    `json:"exited"`
}

type statusCountsBody struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func (s *Server) handleDashboard(c *gin.Context) {
	var from, to time.Time
	loc := s.cfg.StatsLocation()
	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation(dateFormat, v, loc)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation(dateFormat, v, loc)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "to must be YYYY-MM-DD")
			return
		}
		// Inclusive end date: extend to the following midnight.
		to = parsed.AddDate(0, 0, 1)
	}
	stats, err := s.stats.Dashboard(c.Request.Context(), s.sessionFrom(c), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	daily := make([]dailyStatResponse, 0, len(stats.Daily))
	for _, stat := range stats.Daily {
		daily = append(daily, dailyStatResponse{Date: stat.Date, Entered: stat.Entered, Exited: stat.Exited})
	}
	c.JSON(http.StatusOK, dashboardResponse{
		DailyStats:  daily,
		OnSiteNow:   stats.OnSiteNow,
		ExitedToday: stats.ExitedToday,
		StatusCounts: statusCountsBody{
			Pending:  stats.StatusCounts.Pending,
			Approved: stats.StatusCounts.Approved,
			Rejected: stats.StatusCounts.Rejected,
		},
	})
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateFormat, value)
}

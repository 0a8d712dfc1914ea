package http

import (
	"net/http"
	"time"

	"accessd/internal/domain"

	"github.com/gin-gonic/gin"
)

type companyBody struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	DepartmentID  string    `json:"department_id,omitempty"`
	ManagerID     string    `json:"manager_id,omitempty"`
	Department    string    `json:"department,omitempty"`
	Manager       string    `json:"manager,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

func toCompanyBody(company domain.Company) companyBody {
	return companyBody{
		ID:            company.ID,
		Name:          company.Name,
		ContactPerson: company.ContactPerson,
		PhoneNumber:   company.PhoneNumber,
		DepartmentID:  company.DepartmentID,
		ManagerID:     company.ManagerID,
		Department:    company.DepartmentName,
		Manager:       company.ManagerName,
		CreatedAt:     company.CreatedAt,
	}
}

func (s *Server) handleListCompanies(c *gin.Context) {
	companies, err := s.directory.ListCompanies(c.Request.Context(), s.sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]companyBody, 0, len(companies))
	for _, company := range companies {
		out = append(out, toCompanyBody(company))
	}
	c.JSON(http.StatusOK, gin.H{"companies": out})
}

func (s *Server) handleAddCompany(c *gin.Context) {
	var req companyBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	company, err := s.directory.AddCompany(c.Request.Context(), s.sessionFrom(c), domain.Company{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
		DepartmentID:  req.DepartmentID,
		ManagerID:     req.ManagerID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCompanyBody(company))
}

func (s *Server) handleUpdateCompany(c *gin.Context) {
	var req companyBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	company, err := s.directory.UpdateCompany(c.Request.Context(), s.sessionFrom(c), domain.Company{
		ID:            c.Param("id"),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
		DepartmentID:  req.DepartmentID,
		ManagerID:     req.ManagerID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompanyBody(company))
}

func (s *Server) handleDeleteCompany(c *gin.Context) {
	if err := s.directory.DeleteCompany(c.Request.Context(), s.sessionFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

type departmentBody struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	Managers  []managerBody `json:"managers,omitempty"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
}

func toDepartmentBody(dept domain.Department) departmentBody {
	managers := make([]managerBody, 0, len(dept.Managers))
	for _, mgr := range dept.Managers {
		managers = append(managers, toManagerBody(mgr))
	}
	return departmentBody{
		ID:        dept.ID,
		Name:      dept.Name,
		Managers:  managers,
		CreatedAt: dept.CreatedAt,
	}
}

func (s *Server) handleListDepartments(c *gin.Context) {
	depts, err := s.directory.ListDepartments(c.Request.Context(), s.sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]departmentBody, 0, len(depts))
	for _, dept := range depts {
		out = append(out, toDepartmentBody(dept))
	}
	c.JSON(http.StatusOK, gin.H{"departments": out})
}

func (s *Server) handleAddDepartment(c *gin.Context) {
	var req departmentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	dept, err := s.directory.AddDepartment(c.Request.Context(), s.sessionFrom(c), domain.Department{Name: req.Name})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDepartmentBody(dept))
}

func (s *Server) handleUpdateDepartment(c *gin.Context) {
	var req departmentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	dept, err := s.directory.UpdateDepartment(c.Request.Context(), s.sessionFrom(c), domain.Department{
		ID:   c.Param("id"),
		Name: req.Name,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepartmentBody(dept))
}

func (s *Server) handleDeleteDepartment(c *gin.Context) {
	if err := s.directory.DeleteDepartment(c.Request.Context(), s.sessionFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

type managerBody struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	DepartmentID string    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

func toManagerBody(mgr domain.Manager) managerBody {
	return managerBody{
		ID:           mgr.ID,
		Name:         mgr.Name,
		Email:        mgr.Email,
		Phone:        mgr.Phone,
		Role:         string(mgr.Role),
		DepartmentID: mgr.DepartmentID,
		CreatedAt:    mgr.CreatedAt,
	}
}

func (s *Server) handleListManagers(c *gin.Context) {
	managers, err := s.directory.ListManagers(c.Request.Context(), s.sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]managerBody, 0, len(managers))
	for _, mgr := range managers {
		out = append(out, toManagerBody(mgr))
	}
	c.JSON(http.StatusOK, gin.H{"managers": out})
}

func (s *Server) handleAddManager(c *gin.Context) {
	var req managerBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	mgr, err := s.directory.AddManager(c.Request.Context(), s.sessionFrom(c), domain.Manager{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         domain.ManagerRole(req.Role),
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toManagerBody(mgr))
}

func (s *Server) handleUpdateManager(c *gin.Context) {
	var req managerBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	mgr, err := s.directory.UpdateManager(c.Request.Context(), s.sessionFrom(c), domain.Manager{
		ID:           c.Param("id"),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         domain.ManagerRole(req.Role),
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toManagerBody(mgr))
}

func (s *Server) handleDeleteManager(c *gin.Context) {
	if err := s.directory.DeleteManager(c.Request.Context(), s.sessionFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

type projectBody struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	StartDate    string    `json:"start_date,omitempty"`
	EndDate      string    `json:"end_date,omitempty"`
	DepartmentID string    `json:"department_id,omitempty"`
	ManagerID    string    `json:"manager_id,omitempty"`
	Department   string    `json:"department,omitempty"`
	Manager      string    `json:"manager,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

func toProjectBody(project domain.Project) projectBody {
	body := projectBody{
		ID:           project.ID,
		Name:         project.Name,
		Description:  project.Description,
		DepartmentID: project.DepartmentID,
		ManagerID:    project.ManagerID,
		Department:   project.DepartmentName,
		Manager:      project.ManagerName,
		CreatedAt:    project.CreatedAt,
	}
	if project.StartDate != nil {
		body.StartDate = project.StartDate.Format(dateFormat)
	}
	if project.EndDate != nil {
		body.EndDate = project.EndDate.Format(dateFormat)
	}
	return body
}

func (p projectBody) toDomain(id string) (domain.Project, error) {
	project := domain.Project{
		ID:           id,
		Name:         p.Name,
		Description:  p.Description,
		DepartmentID: p.DepartmentID,
		ManagerID:    p.ManagerID,
	}
	if p.StartDate != "" {
		start, err := parseDate(p.StartDate)
		if err != nil {
			return domain.Project{}, err
		}
		project.StartDate = &start
	}
	if p.EndDate != "" {
		end, err := parseDate(p.EndDate)
		if err != nil {
			return domain.Project{}, err
		}
		project.EndDate = &end
	}
	return project, nil
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.directory.ListProjects(c.Request.Context(), s.sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]projectBody, 0, len(projects))
	for _, project := range projects {
		out = append(out, toProjectBody(project))
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

func (s *Server) handleAddProject(c *gin.Context) {
	var req projectBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	input, err := req.toDomain("")
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "dates must be YYYY-MM-DD")
		return
	}
	project, err := s.directory.AddProject(c.Request.Context(), s.sessionFrom(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProjectBody(project))
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var req projectBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	input, err := req.toDomain(c.Param("id"))
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION", "dates must be YYYY-MM-DD")
		return
	}
	project, err := s.directory.UpdateProject(c.Request.Context(), s.sessionFrom(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectBody(project))
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.directory.DeleteProject(c.Request.Context(), s.sessionFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

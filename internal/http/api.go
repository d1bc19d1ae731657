package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"job-portal/internal/domain"
	"job-portal/internal/service"
	"job-portal/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users        service.UserService
	jobs         service.JobService
	applications service.ApplicationService
	storage      storage.Service
	jwtSecret    string
	logger       *logrus.Logger
}

func NewHandler(users service.UserService, jobs service.JobService, applications service.ApplicationService, store storage.Service, jwtSecret string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:        users,
		jobs:         jobs,
		applications: applications,
		storage:      store,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", h.login)
			authGroup.POST("/send-verification", h.sendVerification)
			authGroup.POST("/check-code", h.checkCode)
			authGroup.POST("/verify-email", h.verifyEmail)
			authGroup.POST("/forgot-password", h.forgotPassword)
			authGroup.POST("/reset-password", h.resetPassword)
		}

		api.GET("/jobs", h.listJobs)
		api.POST("/jobs", requireAuth(h.jwtSecret, domain.RoleEmployer), h.createJob)
		api.PUT("/jobs/:id", requireAuth(h.jwtSecret, domain.RoleEmployer), h.updateJob)
		api.DELETE("/jobs/:id", requireAuth(h.jwtSecret, domain.RoleEmployer), h.deleteJob)
		api.GET("/jobs/employer/:id", requireAuth(h.jwtSecret, domain.RoleEmployer), h.listEmployerJobs)
		api.POST("/jobs/:id/apply", requireAuth(h.jwtSecret, domain.RoleJobSeeker), h.applyToJob)

		api.GET("/employees", requireAuth(h.jwtSecret, domain.RoleEmployer), h.listEmployees)
		api.POST("/employees/:id/apply", requireAuth(h.jwtSecret, domain.RoleEmployer), h.contactEmployee)

		api.GET("/notifications", requireAuth(h.jwtSecret), h.listNotifications)
		api.POST("/notifications/respond/:id", requireAuth(h.jwtSecret, domain.RoleEmployer), h.respondToApplication)
		api.DELETE("/notifications/:id", requireAuth(h.jwtSecret), h.deleteNotification)
		api.GET("/notifications/:id/cv", requireAuth(h.jwtSecret), h.viewCV)

		api.GET("/users/:id", requireAuth(h.jwtSecret), h.getUser)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) sendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.SendVerification(c.Request.Context(), req.Email); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type codeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *Handler) checkCode(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.CheckCode(c.Request.Context(), req.Email, req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

type verifyEmailRequest struct {
	Email    string `json:"email" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Position string `json:"position"`
	Contact  string `json:"contact"`
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.users.Register(c.Request.Context(), service.Registration{
		Email:    req.Email,
		Code:     req.Code,
		Name:     req.Name,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Position: req.Position,
		Contact:  req.Contact,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
			return
		}
		if errors.Is(err, service.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
			return
		}
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

type resetPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), req.Email, req.Code, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
			return
		}
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

type jobRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
	Contact     string `json:"contact" binding:"required"`
	Salary      int64  `json:"salary" binding:"required"`
}

func (h *Handler) listJobs(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]JobResponse, len(jobs))
	for i := range jobs {
		resp[i] = jobToResponse(jobs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), claimsFrom(c), domain.JobPatch{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		Contact:     req.Contact,
		Salary:      req.Salary,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobToResponse(*job))
}

func (h *Handler) updateJob(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.jobs.Update(c.Request.Context(), id, claimsFrom(c), domain.JobPatch{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		Contact:     req.Contact,
		Salary:      req.Salary,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": id})
}

func (h *Handler) deleteJob(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), id, claimsFrom(c)); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) listEmployerJobs(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	jobs, err := h.jobs.ListByEmployer(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]JobResponse, len(jobs))
	for i := range jobs {
		resp[i] = jobToResponse(jobs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) applyToJob(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var cv *service.Attachment
	file, err := c.FormFile("cv")
	if err == nil && file != nil {
		opened, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read CV upload"})
			return
		}
		defer opened.Close()
		cv = &service.Attachment{
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Content:     opened,
		}
	}
	coverLetter := c.PostForm("coverLetter")

	notification, err := h.applications.Submit(c.Request.Context(), id, claimsFrom(c), cv, coverLetter)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notificationToResponse(*notification))
}

func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.users.ListEmployees(c.Request.Context())
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]UserResponse, len(employees))
	for i := range employees {
		resp[i] = userToResponse(employees[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) contactEmployee(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	notification, err := h.applications.Contact(c.Request.Context(), id, claimsFrom(c))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notificationToResponse(*notification))
}

func (h *Handler) listNotifications(c *gin.Context) {
	claims := claimsFrom(c)
	notifications, err := h.applications.ListFor(c.Request.Context(), claims.UserID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		resp[i] = notificationToResponse(notifications[i])
	}
	c.JSON(http.StatusOK, resp)
}

type respondRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (h *Handler) respondToApplication(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.applications.Respond(c.Request.Context(), id, claimsFrom(c), *req.Approved)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notificationToResponse(*notification))
}

func (h *Handler) deleteNotification(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.applications.Delete(c.Request.Context(), id, claimsFrom(c)); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// viewCV redirects the caller to a short-lived presigned link for the CV
// attached to one of their notifications.
func (h *Handler) viewCV(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	claims := claimsFrom(c)

	notification, err := h.applications.GetFor(c.Request.Context(), id, claims.UserID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if notification.CVRef == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no CV attached"})
		return
	}

	bucket, key, err := storage.ParseRef(notification.CVRef)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no CV attached"})
		return
	}
	url, err := h.storage.GetObjectURL(c.Request.Context(), bucket, key, 15*time.Minute)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// serviceError maps service failures to HTTP statuses: validation problems are
// actionable 4xx responses, transport failures are a retry-eligible 502 with a
// generic message so store internals never leak to clients.
func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "this application has already been resolved"})
	case errors.Is(err, service.ErrMissingCV):
		c.JSON(http.StatusBadRequest, gin.H{"error": "a CV attachment is required"})
	case errors.Is(err, service.ErrNotAllowed), errors.Is(err, service.ErrNotJobOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "operation not allowed"})
	case errors.Is(err, service.ErrTransport):
		h.logger.Warnf("transport failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "temporary failure, please try again"})
	case strings.Contains(strings.ToLower(err.Error()), "not found"):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

type JobResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
	Salary      int64  `json:"salary"`
	OwnerID     int64  `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func jobToResponse(job domain.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
		Contact:     job.Contact,
		Salary:      job.Salary,
		OwnerID:     job.OwnerID,
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   job.UpdatedAt.Format(time.RFC3339),
	}
}

type NotificationResponse struct {
	ID          int64   `json:"id"`
	RecipientID int64   `json:"recipient_id"`
	SenderID    int64   `json:"from"`
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Match       bool    `json:"match"`
	CVRef       string  `json:"cv,omitempty"`
	CoverLetter string  `json:"cover_letter,omitempty"`
	Response    *string `json:"response,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func notificationToResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Type:        string(n.Type),
		Message:     n.Message,
		Match:       n.Match,
		CVRef:       n.CVRef,
		CoverLetter: n.CoverLetter,
		Response:    n.Response,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Position string `json:"position,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     string(user.Role),
		Position: user.Position,
		Contact:  user.Contact,
	}
}

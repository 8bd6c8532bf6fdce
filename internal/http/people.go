package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/validation"
)

// PeopleController serves the reader endpoints.
type PeopleController struct {
	people  *services.PeopleService
	auditor *audit.Service
}

func NewPeopleController(people *services.PeopleService, auditor *audit.Service) *PeopleController {
	return &PeopleController{people: people, auditor: auditor}
}

// ListPeople handles GET /api/people
func (pc *PeopleController) ListPeople(c *gin.Context) {
	people, err := pc.people.ListPeople()
	if err != nil {
		respondInternalError(c, err, "list people")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"people": people,
		"count":  len(people),
	})
}

// GetPersonByEmail handles GET /api/people/by-email?email=
func (pc *PeopleController) GetPersonByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respondBadRequest(c, "email is required")
		return
	}

	person, err := pc.people.GetPersonByEmail(email)
	if err != nil {
		respondServiceError(c, err, "get person by email")
		return
	}
	c.JSON(http.StatusOK, person)
}

// GetPerson handles GET /api/people/:id
func (pc *PeopleController) GetPerson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	person, err := pc.people.GetPerson(id)
	if err != nil {
		respondServiceError(c, err, "get person")
		return
	}
	c.JSON(http.StatusOK, person)
}

// GetPersonLoans handles GET /api/people/:id/books
func (pc *PeopleController) GetPersonLoans(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := pc.people.GetPersonLoans(id)
	if err != nil {
		respondServiceError(c, err, "get person loans")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"count": len(books),
	})
}

// CreatePerson handles POST /api/people
func (pc *PeopleController) CreatePerson(c *gin.Context) {
	var form validation.PersonForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	person, err := pc.people.CreatePerson(form)
	if err != nil {
		respondServiceError(c, err, "create person")
		return
	}

	if pc.auditor != nil {
		pc.auditor.LogChange(actorFrom(c), entities.AuditEventCreate, "person", person.ID, person.FullName)
	}
	respondCreated(c, person)
}

// UpdatePerson handles PATCH /api/people/:id
func (pc *PeopleController) UpdatePerson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var form validation.PersonForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	person, err := pc.people.UpdatePerson(id, form)
	if err != nil {
		respondServiceError(c, err, "update person")
		return
	}

	if pc.auditor != nil {
		pc.auditor.LogChange(actorFrom(c), entities.AuditEventUpdate, "person", person.ID, person.FullName)
	}
	c.JSON(http.StatusOK, person)
}

// DeletePerson handles DELETE /api/people/:id. Books the person held are freed.
func (pc *PeopleController) DeletePerson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := pc.people.DeletePerson(id); err != nil {
		respondServiceError(c, err, "delete person")
		return
	}

	if pc.auditor != nil {
		pc.auditor.LogDelete(actorFrom(c), "person", id)
	}
	respondSuccess(c, "person deleted")
}

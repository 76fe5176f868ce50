package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pbhavyasri5/Bookies-1/pkg/models"
)

var (
	errDuplicatePending = errors.New("duplicate pending request")
	errAlreadyProcessed = errors.New("request has already been processed")
)

// requestView is the flattened client representation of a BookRequest,
// pulling in the owning book and user fields.
type requestView struct {
	ID               uint                 `json:"id"`
	BookID           uint                 `json:"bookId"`
	BookTitle        string               `json:"bookTitle"`
	BookAuthor       string               `json:"bookAuthor"`
	UserID           uint                 `json:"userId"`
	UserEmail        string               `json:"userEmail"`
	UserName         string               `json:"userName"`
	RequestType      models.RequestType   `json:"requestType"`
	Status           models.RequestStatus `json:"status"`
	RequestedAt      time.Time            `json:"requestedAt"`
	ProcessedAt      *time.Time           `json:"processedAt,omitempty"`
	ProcessedByEmail string               `json:"processedByEmail,omitempty"`
	Notes            string               `json:"notes,omitempty"`
}

func newRequestView(r *models.BookRequest) requestView {
	view := requestView{
		ID:          r.ID,
		BookID:      r.Book.ID,
		BookTitle:   r.Book.Title,
		BookAuthor:  r.Book.Author,
		UserID:      r.User.ID,
		UserEmail:   r.User.Email,
		UserName:    r.User.Name,
		RequestType: r.RequestType,
		Status:      r.Status,
		RequestedAt: r.RequestedAt,
		ProcessedAt: r.ProcessedAt,
		Notes:       r.Notes,
	}
	if r.ProcessedBy != nil {
		view.ProcessedByEmail = r.ProcessedBy.Email
	}
	return view
}

func createRequest(c *gin.Context) {
	var request struct {
		BookID      json.Number `json:"bookId" binding:"required"`
		UserEmail   string      `json:"userEmail" binding:"required"`
		RequestType string      `json:"requestType" binding:"required"`
		Notes       string      `json:"notes"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "bookId, userEmail and requestType are required")
		return
	}

	log.Printf("Creating book request: bookId=%s user=%s type=%s",
		request.BookID, request.UserEmail, request.RequestType)

	bookID, err := request.BookID.Int64()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid book ID format")
		return
	}

	requestType := models.RequestType(request.RequestType)
	if !requestType.Valid() {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Request type must be BORROW or RETURN")
		return
	}

	var book models.Book
	if err := db.First(&book, "id = ?", bookID).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", fmt.Sprintf("Book not found with ID: %d", bookID))
		return
	}

	var user models.User
	if err := db.Where("email = ?", request.UserEmail).First(&user).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "User not found with email: "+request.UserEmail)
		return
	}

	bookRequest := models.BookRequest{
		BookID:      book.ID,
		UserID:      user.ID,
		RequestType: requestType,
		Status:      models.RequestPending,
		RequestedAt: time.Now(),
		Notes:       request.Notes,
	}

	// The duplicate check and the insert share one transaction so two
	// simultaneous submissions cannot both pass the check.
	err = db.Transaction(func(tx *gorm.DB) error {
		var pending int64
		err := tx.Model(&models.BookRequest{}).
			Where("book_id = ? AND user_id = ? AND request_type = ? AND status = ?",
				book.ID, user.ID, requestType, models.RequestPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return errDuplicatePending
		}
		return tx.Create(&bookRequest).Error
	})
	if errors.Is(err, errDuplicatePending) {
		errorJSON(c, http.StatusConflict, "Conflict",
			fmt.Sprintf("You already have a pending %s request for this book", strings.ToLower(string(requestType))))
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to create book request")
		return
	}

	bookRequest.Book = book
	bookRequest.User = user

	log.Printf("Book request created: id=%d type=%s user=%s", bookRequest.ID, requestType, user.Email)
	c.JSON(http.StatusCreated, newRequestView(&bookRequest))
}

func getPendingRequests(c *gin.Context) {
	var requests []models.BookRequest
	err := db.Preload("Book").Preload("User").Preload("ProcessedBy").
		Where("status = ?", models.RequestPending).
		Order("requested_at DESC").
		Find(&requests).Error
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to list pending requests")
		return
	}

	views := make([]requestView, len(requests))
	for i := range requests {
		views[i] = newRequestView(&requests[i])
	}
	c.JSON(http.StatusOK, views)
}

func getUserRequests(c *gin.Context) {
	email := c.Param("email")

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "User not found")
		return
	}

	var requests []models.BookRequest
	err := db.Preload("Book").Preload("User").Preload("ProcessedBy").
		Where("user_id = ?", user.ID).
		Order("requested_at DESC").
		Find(&requests).Error
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to list user requests")
		return
	}

	views := make([]requestView, len(requests))
	for i := range requests {
		views[i] = newRequestView(&requests[i])
	}
	c.JSON(http.StatusOK, views)
}

func getRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid request ID format")
		return
	}

	var request models.BookRequest
	err = db.Preload("Book").Preload("User").Preload("ProcessedBy").
		First(&request, "id = ?", id).Error
	if err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "Request not found")
		return
	}

	c.JSON(http.StatusOK, newRequestView(&request))
}

func approveRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid request ID format")
		return
	}

	var body struct {
		AdminEmail string `json:"adminEmail"`
	}
	_ = c.ShouldBindJSON(&body) // body is optional

	var request models.BookRequest
	err = db.Preload("Book").Preload("User").First(&request, "id = ?", id).Error
	if err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "Request not found")
		return
	}

	admin := resolveProcessingAdmin(c, body.AdminEmail)
	now := time.Now()

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       models.RequestApproved,
			"processed_at": now,
		}
		if admin != nil {
			updates["processed_by_id"] = admin.ID
		}

		// Conditional update doubles as the concurrency guard: a request
		// resolved by a racing admin leaves zero affected rows.
		result := tx.Model(&models.BookRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errAlreadyProcessed
		}

		book := &request.Book
		switch request.RequestType {
		case models.RequestBorrow:
			book.Status = models.BookBorrowed
			book.BorrowedBy = &request.User.Email
			book.BorrowedDate = &now
		case models.RequestReturn:
			book.Status = models.BookAvailable
			book.BorrowedBy = nil
			book.BorrowedDate = nil
		default:
			return fmt.Errorf("unknown request type: %s", request.RequestType)
		}

		return tx.Model(&models.Book{}).
			Where("id = ?", book.ID).
			Updates(map[string]interface{}{
				"status":        book.Status,
				"borrowed_by":   book.BorrowedBy,
				"borrowed_date": book.BorrowedDate,
			}).Error
	})
	if errors.Is(err, errAlreadyProcessed) {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Request has already been processed")
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to approve request")
		return
	}

	request.Status = models.RequestApproved
	request.ProcessedAt = &now
	if admin != nil {
		request.ProcessedByID = &admin.ID
		request.ProcessedBy = admin
	}

	log.Printf("Book request approved: id=%d type=%s book=%q", request.ID, request.RequestType, request.Book.Title)
	c.JSON(http.StatusOK, gin.H{
		"request": newRequestView(&request),
		"book":    request.Book,
		"message": "Request approved successfully",
	})
}

func rejectRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid request ID format")
		return
	}

	var body struct {
		AdminEmail string  `json:"adminEmail"`
		Notes      *string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&body) // body is optional

	var request models.BookRequest
	err = db.Preload("Book").Preload("User").First(&request, "id = ?", id).Error
	if err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "Request not found")
		return
	}

	admin := resolveProcessingAdmin(c, body.AdminEmail)
	now := time.Now()

	updates := map[string]interface{}{
		"status":       models.RequestRejected,
		"processed_at": now,
	}
	if admin != nil {
		updates["processed_by_id"] = admin.ID
	}
	if body.Notes != nil {
		updates["notes"] = *body.Notes
	}

	result := db.Model(&models.BookRequest{}).
		Where("id = ? AND status = ?", request.ID, models.RequestPending).
		Updates(updates)
	if result.Error != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to reject request")
		return
	}
	if result.RowsAffected == 0 {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Request has already been processed")
		return
	}

	request.Status = models.RequestRejected
	request.ProcessedAt = &now
	if admin != nil {
		request.ProcessedByID = &admin.ID
		request.ProcessedBy = admin
	}
	if body.Notes != nil {
		request.Notes = *body.Notes
	}

	log.Printf("Book request rejected: id=%d type=%s notes=%q", request.ID, request.RequestType, request.Notes)
	c.JSON(http.StatusOK, gin.H{
		"request": newRequestView(&request),
		"message": "Request rejected successfully",
	})
}

// deleteRequest is an administrative override: it removes a request in
// any status, pending included.
func deleteRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid request ID format")
		return
	}

	var request models.BookRequest
	if err := db.First(&request, "id = ?", id).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "Request not found")
		return
	}

	if err := db.Delete(&request).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to delete request")
		return
	}

	log.Printf("Book request deleted: id=%d", request.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Request deleted successfully"})
}

// resolveProcessingAdmin picks the account recorded as processedBy. The
// authenticated caller wins; the adminEmail body hint is a best-effort
// fallback and grants nothing.
func resolveProcessingAdmin(c *gin.Context, hint string) *models.User {
	if claims := currentClaims(c); claims != nil {
		var admin models.User
		if err := db.Where("email = ?", claims.Email).First(&admin).Error; err == nil {
			return &admin
		}
	}
	if hint != "" {
		var admin models.User
		if err := db.Where("email = ?", hint).First(&admin).Error; err == nil {
			return &admin
		}
	}
	return nil
}

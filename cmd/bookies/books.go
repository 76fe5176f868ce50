package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pbhavyasri5/Bookies-1/pkg/models"
)

func getBooks(c *gin.Context) {
	var books []models.Book
	if err := db.Order("id").Find(&books).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

func getBook(c *gin.Context) {
	id := c.Param("id")

	var book models.Book
	if err := db.First(&book, "id = ?", id).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "Book not found")
		return
	}
	c.JSON(http.StatusOK, book)
}

func createBook(c *gin.Context) {
	var request struct {
		Title       string `json:"title" binding:"required"`
		Author      string `json:"author" binding:"required"`
		Isbn        string `json:"isbn"`
		Category    string `json:"category"`
		Publisher   string `json:"publisher"`
		Description string `json:"description"`
		CoverImage  string `json:"coverImage"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Title and author are required")
		return
	}

	book := models.Book{
		BookUid:     uuid.New().String(),
		Title:       request.Title,
		Author:      request.Author,
		Isbn:        request.Isbn,
		Category:    request.Category,
		Publisher:   request.Publisher,
		Description: request.Description,
		CoverImage:  request.CoverImage,
		Status:      models.BookAvailable,
	}
	if err := db.Create(&book).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to create book")
		return
	}

	log.Printf("Book created: id=%d title=%q", book.ID, book.Title)
	c.JSON(http.StatusCreated, book)
}

// updateBook rewrites catalog fields only. Availability fields (status,
// borrowedBy, borrowedDate) belong to the request workflow and are never
// written here.
func updateBook(c *gin.Context) {
	id := c.Param("id")

	var book models.Book
	if err := db.First(&book, "id = ?", id).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "Book not found")
		return
	}

	var request struct {
		Title       string  `json:"title" binding:"required"`
		Author      string  `json:"author" binding:"required"`
		Isbn        string  `json:"isbn"`
		Category    string  `json:"category"`
		Publisher   string  `json:"publisher"`
		Description string  `json:"description"`
		CoverImage  *string `json:"coverImage"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Title and author are required")
		return
	}

	book.Title = request.Title
	book.Author = request.Author
	book.Isbn = request.Isbn
	book.Category = request.Category
	book.Publisher = request.Publisher
	book.Description = request.Description
	if request.CoverImage != nil {
		book.CoverImage = *request.CoverImage
	}

	updates := map[string]interface{}{
		"title":       book.Title,
		"author":      book.Author,
		"isbn":        book.Isbn,
		"category":    book.Category,
		"publisher":   book.Publisher,
		"description": book.Description,
		"cover_image": book.CoverImage,
	}
	if err := db.Model(&book).Updates(updates).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to update book")
		return
	}

	log.Printf("Book updated: id=%d", book.ID)
	c.JSON(http.StatusOK, book)
}

func deleteBook(c *gin.Context) {
	id := c.Param("id")

	var book models.Book
	if err := db.First(&book, "id = ?", id).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "Book not found")
		return
	}

	if err := db.Delete(&book).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Failed to delete book")
		return
	}

	log.Printf("Book deleted: id=%d", book.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

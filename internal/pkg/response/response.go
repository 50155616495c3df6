package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the standard success payload: {status, data}.
type Envelope struct {
	Status string      `json:"status" example:"success"`
	Data   interface{} `json:"data"`
}

// ListEnvelope is the success payload for collection reads, carrying the
// number of returned records alongside the data.
type ListEnvelope struct {
	Status  string      `json:"status" example:"success"`
	Results int         `json:"results" example:"25"`
	Data    interface{} `json:"data"`
}

// Success sends a 200 OK response with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Status: "success",
		Data:   data,
	})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{
		Status: "success",
		Data:   data,
	})
}

// List sends a 200 OK response for a collection read
func List(c *gin.Context, data interface{}, results int) {
	c.JSON(http.StatusOK, ListEnvelope{
		Status:  "success",
		Results: results,
		Data:    data,
	})
}

// NoContent sends an empty 204 acknowledgement
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

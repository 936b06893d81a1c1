package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"healthguard/pkg/disease"
	"healthguard/pkg/pipeline"
	"healthguard/pkg/predict"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Predictor is the part of *predict.Service the handlers use.
type Predictor interface {
	Predict(ctx context.Context, d disease.Disease, inputs pipeline.RawInputs) (*predict.Result, error)
	Schema(ctx context.Context, d disease.Disease) (*pipeline.Schema, error)
}

type predictRequest struct {
	Inputs map[string]any `json:"inputs" binding:"required"`
}

type diseaseInfo struct {
	ID     disease.Disease `json:"id"`
	Title  string          `json:"title"`
	Fields []disease.Field `json:"fields"`
}

// NewRouter wires the inference endpoints. db may be nil when no database
// backs the registry.
func NewRouter(svc Predictor, db HealthChecker) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	router.GET("/api/diseases", func(c *gin.Context) {
		out := make([]diseaseInfo, 0, len(disease.All()))
		for _, d := range disease.All() {
			p, _ := disease.Lookup(d)
			out = append(out, diseaseInfo{ID: d, Title: d.Title(), Fields: p.Fields})
		}
		c.JSON(http.StatusOK, out)
	})

	router.POST("/api/predict/:disease", func(c *gin.Context) {
		d, err := disease.Parse(c.Param("disease"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var req predictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		ctx := c.Request.Context()
		schema, err := svc.Schema(ctx, d)
		if err != nil {
			writeError(c, err)
			return
		}
		profile, _ := disease.Lookup(d)
		inputs, err := resolveInputs(profile, schema, req.Inputs)
		if err != nil {
			writeError(c, err)
			return
		}

		res, err := svc.Predict(ctx, d, inputs)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	return router
}

func writeError(c *gin.Context, err error) {
	var (
		unavailable *predict.ModelUnavailableError
		invalid     *InputError
	)
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "field": invalid.Field, "detail": invalid.Reason})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model unavailable", "detail": err.Error()})
	case errors.Is(err, predict.ErrUnknownDisease):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

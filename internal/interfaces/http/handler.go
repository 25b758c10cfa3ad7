package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	marketsvc "mandi/internal/application/service/market"
	negotiationsvc "mandi/internal/application/service/negotiation"
	"mandi/internal/application/session"
	negotiationdomain "mandi/internal/domain/entity/negotiation"
	translationdomain "mandi/internal/domain/entity/translation"
	"mandi/internal/infrastructure/i18n"
)

const (
	basePath        = "/api/v1"
	sessionIDHeader = "X-Session-ID"
)

var (
	errMissingSession = errors.New("X-Session-ID header required")
	errUnknownSession = errors.New("unknown session")
	errMissingTrend   = errors.New("trend query param required")
	errMissingCrop    = errors.New("crop query param required")
	errMissingRole    = errors.New("role query param required")
)

const sessionKey = "mandi_session"

type Handler struct {
	router   *gin.Engine
	sessions *session.Manager
	labels   *i18n.Translator
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logrus.FieldLogger
}

func NewHandler(sessions *session.Manager, labels *i18n.Translator, cache *redis.Client, cacheTTL time.Duration, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:   router,
		sessions: sessions,
		labels:   labels,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	api := h.router.Group(basePath)

	api.POST("/sessions", h.createSession)
	api.GET("/labels", h.getLabels)

	scoped := api.Group("", h.sessionMiddleware())

	rates := scoped.Group("/rates")
	if h.cache != nil {
		rates.Use(h.cacheMiddleware())
	}
	{
		rates.GET("", h.getAllRates)
		rates.GET("/search", h.searchRates)
		rates.GET("/trending", h.getTrendingRates)
		rates.GET("/:name", h.getRateByName)
		rates.GET("/:name/history", h.getRateHistory)
		rates.POST("/tick", h.tickRates)
	}

	translate := scoped.Group("/translate")
	{
		translate.POST("", h.translate)
		translate.POST("/batch", h.translateBatch)
		translate.DELETE("/cache", h.clearTranslationCache)
	}

	nego := scoped.Group("/negotiation")
	{
		nego.GET("/messages", h.getMessages)
		nego.POST("/messages", h.postMessage)
		nego.POST("/reset", h.resetNegotiation)
		nego.GET("/suggest", h.suggestOpeningPrice)
	}
}

// sessionMiddleware resolves the caller's isolated session context. Every
// scoped route reads state through it; nothing is shared across sessions.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionIDHeader)
		if id == "" {
			writeError(c, http.StatusBadRequest, errMissingSession)
			c.Abort()
			return
		}
		s, ok := h.sessions.Get(id)
		if !ok {
			writeError(c, http.StatusNotFound, errUnknownSession)
			c.Abort()
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// Sessions

func (h *Handler) createSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"session_id": s.ID})
}

// UI labels

func (h *Handler) getLabels(c *gin.Context) {
	lang := c.DefaultQuery("lang", "english")
	c.JSON(http.StatusOK, h.labels.Labels(lang))
}

// Rates

func (h *Handler) getAllRates(c *gin.Context) {
	rates, err := currentSession(c).Rates.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *Handler) searchRates(c *gin.Context) {
	rates, err := currentSession(c).Rates.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *Handler) getTrendingRates(c *gin.Context) {
	trend := c.Query("trend")
	if trend == "" {
		writeError(c, http.StatusBadRequest, errMissingTrend)
		return
	}
	rates, err := currentSession(c).Rates.FilterByTrend(c.Request.Context(), trend)
	if err != nil {
		if errors.Is(err, marketsvc.ErrInvalidTrend) {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *Handler) getRateByName(c *gin.Context) {
	rate, err := currentSession(c).Rates.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, marketsvc.ErrNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (h *Handler) getRateHistory(c *gin.Context) {
	days, err := parseIntQuery(c, "days", 7)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	history, err := currentSession(c).Rates.History(c.Request.Context(), c.Param("name"), days)
	if err != nil {
		if errors.Is(err, marketsvc.ErrInvalidDays) {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *Handler) tickRates(c *gin.Context) {
	rates, err := currentSession(c).Rates.Tick(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

// Translation

type translatePayload struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language" binding:"required"`
}

func (h *Handler) translate(c *gin.Context) {
	var payload translatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	result := currentSession(c).Translator.Translate(c.Request.Context(), payload.Text, payload.TargetLanguage)
	c.JSON(http.StatusOK, result)
}

type translateBatchPayload struct {
	Texts          []string `json:"texts" binding:"required"`
	TargetLanguage string   `json:"target_language" binding:"required"`
}

func (h *Handler) translateBatch(c *gin.Context) {
	var payload translateBatchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	results := currentSession(c).Translator.BatchTranslate(c.Request.Context(), payload.Texts, payload.TargetLanguage)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) clearTranslationCache(c *gin.Context) {
	currentSession(c).Translator.Clear()
	c.Status(http.StatusNoContent)
}

// Negotiation

func (h *Handler) getMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": currentSession(c).Negotiation.History()})
}

type messagePayload struct {
	Role     string `json:"role" binding:"required"`
	Content  string `json:"content"`
	Crop     string `json:"crop" binding:"required"`
	Language string `json:"language"`
}

// postMessage appends the user's message, then picks a canned assistant
// reply for the crop, translates it when the requested language is not
// english, and appends it as the assistant turn.
func (h *Handler) postMessage(c *gin.Context) {
	var payload messagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	role, err := negotiationdomain.NewRole(payload.Role)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	s := currentSession(c)
	ctx := c.Request.Context()

	rate, err := s.Rates.GetByName(ctx, payload.Crop)
	if err != nil {
		if errors.Is(err, marketsvc.ErrNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	userMsg, err := s.Negotiation.Append(role, payload.Content)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	reply, err := s.Negotiation.PickReply(negotiationsvc.AssistantPhrases(rate))
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	if lang, ok := translationdomain.Normalize(payload.Language); ok && lang != translationdomain.English {
		reply = s.Translator.Translate(ctx, reply, lang.String()).Text
	}

	assistantMsg, err := s.Negotiation.Append(negotiationdomain.RoleAssistant, reply)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": userMsg,
		"reply":   assistantMsg,
	})
}

func (h *Handler) resetNegotiation(c *gin.Context) {
	currentSession(c).Negotiation.Reset()
	c.Status(http.StatusNoContent)
}

func (h *Handler) suggestOpeningPrice(c *gin.Context) {
	cropName := c.Query("crop")
	if cropName == "" {
		writeError(c, http.StatusBadRequest, errMissingCrop)
		return
	}
	roleStr := c.Query("role")
	if roleStr == "" {
		writeError(c, http.StatusBadRequest, errMissingRole)
		return
	}
	role, err := negotiationdomain.NewRole(roleStr)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	s := currentSession(c)
	rate, err := s.Rates.GetByName(c.Request.Context(), cropName)
	if err != nil {
		if errors.Is(err, marketsvc.ErrNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	suggested, err := s.Negotiation.SuggestOpeningPrice(rate.Price, role)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"crop":            rate.ID,
		"role":            role,
		"market_price":    rate.Price,
		"suggested_price": suggested,
	})
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// cacheMiddleware caches GET responses in Redis. Keys include the session id
// so cached snapshots never leak across sessions.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s:%s?%s", c.GetHeader(sessionIDHeader), c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery)
}

func parseIntQuery(c *gin.Context, key string, fallback int) (int, error) {
	value := c.Query(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s query param must be an integer: %w", key, err)
	}
	return parsed, nil
}

package mockapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tridigitals/ispmanagement-sub005/internal/api"
	"github.com/tridigitals/ispmanagement-sub005/internal/logger"
)

// Server is the mock management API.
type Server struct {
	db  *gorm.DB
	sim *Simulator
	log logger.Logger

	token string
	http  *http.Server
}

// Options configures a mock server.
type Options struct {
	DB *gorm.DB

	// Token, when set, is required as a bearer token on every request.
	Token string

	// Seed fixes the traffic simulator's jitter stream. Zero means random.
	Seed int64

	Logger logger.Logger
}

// NewServer builds the mock API around an opened store.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		db:    opts.DB,
		sim:   NewSimulator(opts.Seed),
		log:   log,
		token: opts.Token,
	}
}

// Router builds the gin engine with all routes registered.
//
//	GET /api/devices
//	GET /api/devices/:id/interfaces
//	GET /api/devices/:id/counters?interfaces=a,b
//	GET /api/settings/:key
//	PUT /api/settings/:key
//	GET /healthz
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Health probe stays unauthenticated.
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api", s.authMiddleware())
	{
		apiGroup.GET("/devices", s.handleListDevices)
		apiGroup.GET("/devices/:id/interfaces", s.handleListInterfaces)
		apiGroup.GET("/devices/:id/counters", s.handleCounters)
		apiGroup.GET("/settings/:key", s.handleGetSetting)
		apiGroup.PUT("/settings/:key", s.handlePutSetting)
	}

	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.log.Info("[mockapi] listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// authMiddleware enforces the bearer token when one is configured.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if auth != "Bearer "+s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// handleListDevices returns the registry, with the gopsutil-backed local
// pseudo-device appended.
func (s *Server) handleListDevices(c *gin.Context) {
	var devices []Device
	if err := s.db.Find(&devices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]api.DeviceSummary, 0, len(devices)+1)
	for _, d := range devices {
		out = append(out, api.DeviceSummary{
			ID:     d.DeviceID,
			Name:   d.Name,
			Host:   d.Host,
			Port:   d.Port,
			Online: d.Online,
		})
	}
	out = append(out, api.DeviceSummary{
		ID:     LocalDeviceID,
		Name:   "this-machine",
		Host:   "127.0.0.1",
		Online: true,
	})

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListInterfaces(c *gin.Context) {
	id := c.Param("id")

	var ifaces []Interface
	if id == LocalDeviceID {
		local, err := localInterfaces()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ifaces = local
	} else {
		dev, ok := s.findDevice(c, id)
		if !ok {
			return
		}
		if err := s.db.Where("device_ref = ?", dev.ID).Find(&ifaces).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	out := make([]api.InterfaceInfo, 0, len(ifaces))
	for _, i := range ifaces {
		out = append(out, api.InterfaceInfo{
			Name:     i.Name,
			Type:     i.Type,
			Running:  i.Running,
			Disabled: i.Disabled,
		})
	}
	c.JSON(http.StatusOK, out)
}

// handleCounters serves monotonic byte counters for the requested
// interface names. Unknown names are omitted. An offline device answers
// 503, matching how a real management server fails when it cannot reach
// the device.
func (s *Server) handleCounters(c *gin.Context) {
	id := c.Param("id")
	names := splitNames(c.Query("interfaces"))

	if id == LocalDeviceID {
		counters, err := localCounters(names)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]api.InterfaceCounters, 0, len(names))
		for _, name := range names {
			if v, ok := counters[name]; ok {
				out = append(out, api.InterfaceCounters{Name: name, RxBytes: v[0], TxBytes: v[1]})
			}
		}
		c.JSON(http.StatusOK, out)
		return
	}

	dev, ok := s.findDevice(c, id)
	if !ok {
		return
	}
	if !dev.Online {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "device unreachable"})
		return
	}

	var ifaces []Interface
	if err := s.db.Where("device_ref = ?", dev.ID).Find(&ifaces).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	byName := make(map[string]Interface, len(ifaces))
	for _, i := range ifaces {
		byName[i.Name] = i
	}

	out := make([]api.InterfaceCounters, 0, len(names))
	for _, name := range names {
		iface, ok := byName[name]
		if !ok || iface.Disabled {
			continue
		}
		rx, tx := s.sim.Counters(dev.DeviceID, name, iface.BaselineBps)
		out = append(out, api.InterfaceCounters{Name: name, RxBytes: rx, TxBytes: tx})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetSetting(c *gin.Context) {
	key := c.Param("key")

	var setting Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":         setting.Key,
		"value":       setting.Value,
		"description": setting.Description,
	})
}

func (s *Server) handlePutSetting(c *gin.Context) {
	key := c.Param("key")

	var body struct {
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	var setting Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		setting = Setting{Key: key, Value: body.Value, Description: body.Description}
		err = s.db.Create(&setting).Error
	case err == nil:
		err = s.db.Model(&setting).Updates(map[string]any{
			"value":       body.Value,
			"description": body.Description,
		}).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": body.Value})
}

// findDevice loads a device by its registry id, answering 404 itself when
// the device does not exist.
func (s *Server) findDevice(c *gin.Context, id string) (Device, bool) {
	var dev Device
	err := s.db.Where("device_id = ?", id).First(&dev).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown device"})
		return dev, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return dev, false
	}
	return dev, true
}

func splitNames(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

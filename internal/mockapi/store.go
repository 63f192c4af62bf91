package mockapi

import (
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tridigitals/ispmanagement-sub005/internal/errors"
)

// OpenStore opens the mock server's sqlite database and migrates the
// schema. Pass ":memory:" for an ephemeral store.
func OpenStore(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Failed to open mock API database",
			"Check that the path is writable, or use --db :memory:")
	}

	if err := db.AutoMigrate(&Device{}, &Interface{}, &Setting{}); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Failed to migrate mock API schema", "")
	}
	return db, nil
}

// seedDevice describes one device in the default fleet.
type seedDevice struct {
	id     string
	name   string
	host   string
	online bool
	ports  []seedPort
}

type seedPort struct {
	name     string
	ptype    string
	baseline int64
	disabled bool
}

// defaultFleet is the simulated network seeded on first run: a core router,
// two access routers, and one device that is deliberately offline so the
// wallboard's failure paths light up during demos.
var defaultFleet = []seedDevice{
	{
		id: "core-01", name: "core-router", host: "10.0.0.1", online: true,
		ports: []seedPort{
			{name: "sfp-sfpplus1", ptype: "sfp", baseline: 4_000_000_000},
			{name: "sfp-sfpplus2", ptype: "sfp", baseline: 2_500_000_000},
			{name: "ether1", ptype: "ether", baseline: 800_000_000},
			{name: "bridge1", ptype: "bridge", baseline: 6_000_000_000},
		},
	},
	{
		id: "acc-01", name: "access-north", host: "10.0.1.1", online: true,
		ports: []seedPort{
			{name: "ether1", ptype: "ether", baseline: 350_000_000},
			{name: "ether2", ptype: "ether", baseline: 120_000_000},
			{name: "ether3", ptype: "ether", baseline: 0, disabled: true},
			{name: "wlan1", ptype: "wlan", baseline: 90_000_000},
		},
	},
	{
		id: "acc-02", name: "access-south", host: "10.0.2.1", online: true,
		ports: []seedPort{
			{name: "ether1", ptype: "ether", baseline: 280_000_000},
			{name: "ether2", ptype: "ether", baseline: 60_000_000},
		},
	},
	{
		id: "edge-09", name: "edge-downed", host: "10.0.9.1", online: false,
		ports: []seedPort{
			{name: "ether1", ptype: "ether", baseline: 50_000_000},
		},
	},
}

// Seed inserts the default fleet unless devices already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Device{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, sd := range defaultFleet {
		dev := Device{
			DeviceID: sd.id,
			Name:     sd.name,
			Host:     sd.host,
			Port:     8728,
			Online:   sd.online,
			LastSeen: time.Now(),
		}
		if err := db.Create(&dev).Error; err != nil {
			return err
		}
		for _, p := range sd.ports {
			iface := Interface{
				DeviceRef:   dev.ID,
				Name:        p.name,
				Type:        p.ptype,
				Running:     !p.disabled,
				Disabled:    p.disabled,
				BaselineBps: p.baseline,
			}
			if err := db.Create(&iface).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

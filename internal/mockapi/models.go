// Package mockapi runs a self-contained management API for development and
// demos. It serves the same REST surface as a production management server:
// the device registry, per-device interface counters, interface discovery,
// and the key-value settings store. Devices are simulated with synthetic
// traffic patterns, except for the "local" device which reports this
// machine's real NIC counters.
package mockapi

import (
	"time"

	"gorm.io/gorm"
)

// Device is a simulated managed device.
type Device struct {
	gorm.Model

	DeviceID string `gorm:"uniqueIndex;not null" json:"device_id"`
	Name     string `gorm:"index" json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Online   bool   `json:"online"`
	LastSeen time.Time `json:"last_seen"`

	Interfaces []Interface `gorm:"foreignKey:DeviceRef" json:"interfaces,omitempty"`
}

// Interface is one port on a simulated device. BaselineBps shapes the
// synthetic traffic generator for that port.
type Interface struct {
	gorm.Model

	DeviceRef uint   `gorm:"index;not null" json:"-"`
	Name      string `gorm:"index;not null" json:"name"`
	Type      string `gorm:"default:'ether'" json:"type"`
	Running   bool   `gorm:"default:true" json:"running"`
	Disabled  bool   `gorm:"default:false" json:"disabled"`

	BaselineBps int64 `json:"baseline_bps"`
}

// Setting is one row of the key-value settings store.
type Setting struct {
	gorm.Model

	Key         string `gorm:"uniqueIndex;not null" json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

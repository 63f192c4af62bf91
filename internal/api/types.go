// Package api defines the management-API surface the wallboard consumes:
// the device registry, per-device interface counters, interface discovery,
// and the generic key-value settings store. The wallboard only depends on
// the interfaces here; Client is the HTTP implementation.
package api

import "context"

// DeviceSummary describes a managed device as reported by the registry.
type DeviceSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Online bool   `json:"online"`
}

// InterfaceCounters is a raw byte-counter snapshot for one interface.
// Counters are monotonic except across device reboots and rollovers.
type InterfaceCounters struct {
	Name    string `json:"name"`
	RxBytes int64  `json:"rx_bytes"`
	TxBytes int64  `json:"tx_bytes"`
}

// InterfaceInfo describes an interface available on a device.
type InterfaceInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Running  bool   `json:"running"`
	Disabled bool   `json:"disabled"`
}

// DeviceRegistry lists managed devices and their online state.
type DeviceRegistry interface {
	ListDevices(ctx context.Context) ([]DeviceSummary, error)
}

// CounterSource fetches current byte counters for a set of interfaces on
// one device.
type CounterSource interface {
	FetchCounters(ctx context.Context, deviceID string, ifaceNames []string) ([]InterfaceCounters, error)
}

// InterfaceCatalog lists the interfaces a device exposes, for the tile picker.
type InterfaceCatalog interface {
	ListInterfaces(ctx context.Context, deviceID string) ([]InterfaceInfo, error)
}

// SettingsStore is the generic key-value store used for remote persistence.
// Get returns found=false (not an error) when the key has never been written.
type SettingsStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value, description string) error
}

// Service is the full collaborator surface the wallboard needs.
type Service interface {
	DeviceRegistry
	CounterSource
	InterfaceCatalog
	SettingsStore
}

package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tridigitals/ispmanagement-sub005/internal/api"
)

// slotEditor is the modal form for assigning a tile. It binds form fields
// to string state and converts to a Slot on completion.
type slotEditor struct {
	form  *huh.Form
	index int

	deviceID string
	iface    string
	rxValue  string
	rxUnit   string
	txValue  string
	txUnit   string
}

// newSlotEditor builds the form for the slot at the given global index.
// Existing assignments prefill the fields. Interface options load lazily
// per selected device through the cache.
func newSlotEditor(index int, existing *Slot, devices []api.DeviceSummary, cache *IfaceCache) *slotEditor {
	e := &slotEditor{
		index:  index,
		rxUnit: string(UnitMbps),
		txUnit: string(UnitMbps),
	}

	if existing != nil {
		e.deviceID = existing.DeviceID
		e.iface = existing.Interface
		e.rxValue, e.rxUnit = thresholdFields(existing.WarnBelowRxBps)
		e.txValue, e.txUnit = thresholdFields(existing.WarnBelowTxBps)
	} else if len(devices) > 0 {
		e.deviceID = devices[0].ID
	}

	deviceOptions := make([]huh.Option[string], 0, len(devices))
	for _, d := range devices {
		label := d.Name
		if label == "" {
			label = d.ID
		}
		if !d.Online {
			label += " (offline)"
		}
		deviceOptions = append(deviceOptions, huh.NewOption(label, d.ID))
	}

	unitOptions := make([]huh.Option[string], 0, len(RateUnits))
	for _, u := range RateUnits {
		unitOptions = append(unitOptions, huh.NewOption(string(u), string(u)))
	}

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Device").
				Options(deviceOptions...).
				Value(&e.deviceID),
			huh.NewSelect[string]().
				Title("Interface").
				OptionsFunc(func() []huh.Option[string] {
					return ifaceOptions(cache, e.deviceID, e.iface)
				}, &e.deviceID).
				Value(&e.iface),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Warn below RX").
				Description("Empty disables the alert").
				Validate(validateThresholdValue).
				Value(&e.rxValue),
			huh.NewSelect[string]().
				Title("RX unit").
				Options(unitOptions...).
				Value(&e.rxUnit),
			huh.NewInput().
				Title("Warn below TX").
				Description("Empty disables the alert").
				Validate(validateThresholdValue).
				Value(&e.txValue),
			huh.NewSelect[string]().
				Title("TX unit").
				Options(unitOptions...).
				Value(&e.txUnit),
		),
	).WithShowHelp(true)

	return e
}

// Slot converts the completed form state into a slot assignment.
func (e *slotEditor) Slot() Slot {
	return Slot{
		DeviceID:       e.deviceID,
		Interface:      e.iface,
		WarnBelowRxBps: parseThreshold(e.rxValue, e.rxUnit),
		WarnBelowTxBps: parseThreshold(e.txValue, e.txUnit),
	}
}

// ifaceOptions builds the interface select list for a device. The current
// assignment stays selectable even when the live listing does not include
// it, so an unreachable device does not wipe the field.
func ifaceOptions(cache *IfaceCache, deviceID, current string) []huh.Option[string] {
	names := cache.Names(deviceID)

	seen := false
	options := make([]huh.Option[string], 0, len(names)+1)
	for _, name := range names {
		if name == current {
			seen = true
		}
		options = append(options, huh.NewOption(name, name))
	}
	if current != "" && !seen {
		options = append(options, huh.NewOption(current+" (unverified)", current))
	}
	if len(options) == 0 {
		options = append(options, huh.NewOption(DefaultInterfaceName, DefaultInterfaceName))
	}
	return options
}

func validateThresholdValue(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("enter a number, like 2.5")
	}
	if v < 0 {
		return fmt.Errorf("threshold cannot be negative")
	}
	return nil
}

func parseThreshold(value, unit string) *int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return ToBps(v, RateUnit(unit))
}

func thresholdFields(bps *int64) (string, string) {
	if bps == nil {
		return "", string(UnitMbps)
	}
	value, unit := FromBps(*bps)
	return strconv.FormatFloat(value, 'f', -1, 64), string(unit)
}

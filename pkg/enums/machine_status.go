package enums

import "fmt"

// MachineStatus maps to the machine_status enum in Postgres.
type MachineStatus string

const (
	MachineStatusActive      MachineStatus = "active"
	MachineStatusMaintenance MachineStatus = "maintenance"
	MachineStatusOffline     MachineStatus = "offline"
	MachineStatusRetired     MachineStatus = "retired"
)

var validMachineStatuses = []MachineStatus{
	MachineStatusActive,
	MachineStatusMaintenance,
	MachineStatusOffline,
	MachineStatusRetired,
}

func (s MachineStatus) IsValid() bool {
	for _, candidate := range validMachineStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseMachineStatus(value string) (MachineStatus, error) {
	for _, candidate := range validMachineStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid machine status %q", value)
}

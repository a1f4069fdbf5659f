package models

// WifiSecurity enumerates the security modes a network can advertise.
type WifiSecurity string

const (
	SecurityOpen    WifiSecurity = "OPEN"
	SecurityWEP     WifiSecurity = "WEP"
	SecurityWPA     WifiSecurity = "WPA"
	SecurityWPA2    WifiSecurity = "WPA2"
	SecurityWPA3    WifiSecurity = "WPA3"
	SecurityUnknown WifiSecurity = "UNKNOWN"
)

// NetworkMode enumerates operating modes of an observed network.
type NetworkMode string

const (
	ModeInfra    NetworkMode = "INFRA"
	ModeIBSS     NetworkMode = "IBSS"
	ModeMonitor  NetworkMode = "MONITOR"
	ModeMesh     NetworkMode = "MESH"
	ModeClient   NetworkMode = "CLIENT"
	ModeAP       NetworkMode = "AP"
	ModeWDS      NetworkMode = "WDS"
	ModeP2P      NetworkMode = "P2P"
	ModeBridge   NetworkMode = "BRIDGE"
	ModeRepeater NetworkMode = "REPEATER"
)

// SeenNetwork is a network the client has observed during a scan.
type SeenNetwork struct {
	SSID     string       `json:"ssid" db:"ssid"`
	BSSID    string       `json:"bssid" db:"bssid"`
	Security WifiSecurity `json:"security" db:"security"`
	Mode     NetworkMode  `json:"mode" db:"mode"`
}

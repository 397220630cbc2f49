package compose

import "fmt"

// Layout names the parts of a compose file the rewriter keys on
type Layout struct {
	// SectionsKey is the top-level key whose children are services
	SectionsKey string
	// StorageSection is the service that owns the snapshot backup mount
	StorageSection string
	// IngestSection is the service whose beats port can be exposed
	IngestSection string
	// IngestPort is published on BindAddress when exposure is requested
	IngestPort  string
	BindAddress string
	// BackupMount is the container side of the snapshot volume
	BackupMount string
	// KeystoreMount is the container side of the forwarding credential volume
	KeystoreMount string
}

// DefaultLayout returns the names used by the stock compose files
func DefaultLayout() Layout {
	return Layout{
		SectionsKey:    "services",
		StorageSection: "elasticsearch",
		IngestSection:  "logstash",
		IngestPort:     "5044",
		BindAddress:    "0.0.0.0",
		BackupMount:    "/opt/elasticsearch/backup",
		KeystoreMount:  "/usr/share/logstash/config/logstash.keystore",
	}
}

// PortBinding is the list item published under ports:
func (l Layout) PortBinding() string {
	return fmt.Sprintf("%s:%s:%s", l.BindAddress, l.IngestPort, l.IngestPort)
}

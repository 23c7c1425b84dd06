package hdfs

import (
	"strings"

	"github.com/DrSkyle/hdfslash/pkg/catalog"
)

// FileStatus is the WebHDFS FileStatus wire object. Field names follow the
// Hadoop JSON schema, not Go conventions.
type FileStatus struct {
	AccessTime       int64  `json:"accessTime"`
	BlockSize        int64  `json:"blockSize"`
	Group            string `json:"group"`
	Length           int64  `json:"length"`
	ModificationTime int64  `json:"modificationTime"`
	Owner            string `json:"owner"`
	PathSuffix       string `json:"pathSuffix"`
	Permission       string `json:"permission"`
	Replication      int    `json:"replication"`
	StoragePolicy    int    `json:"storagePolicy"`
	Type             string `json:"type"`
}

// IsDir reports whether the entry is a directory.
func (s FileStatus) IsDir() bool {
	return s.Type == "DIRECTORY"
}

// AbsolutePath joins the listing root with the entry's path suffix.
func (s FileStatus) AbsolutePath(parent string) string {
	if s.PathSuffix == "" {
		return parent
	}
	return strings.TrimSuffix(parent, "/") + "/" + s.PathSuffix
}

// ToRecord converts a wire status into a catalog record.
func (s FileStatus) ToRecord(parent string) catalog.FileRecord {
	return catalog.FileRecord{
		Path:             s.AbsolutePath(parent),
		Size:             s.Length,
		Replication:      s.Replication,
		BlockSize:        s.BlockSize,
		AccessTime:       s.AccessTime,
		ModificationTime: s.ModificationTime,
		Owner:            s.Owner,
		Group:            s.Group,
		Permission:       s.Permission,
	}
}

type listStatusResponse struct {
	FileStatuses struct {
		FileStatus []FileStatus `json:"FileStatus"`
	} `json:"FileStatuses"`
}

type fileStatusResponse struct {
	FileStatus FileStatus `json:"FileStatus"`
}

// ContentSummary is the WebHDFS GETCONTENTSUMMARY payload.
type ContentSummary struct {
	DirectoryCount int64 `json:"directoryCount"`
	FileCount      int64 `json:"fileCount"`
	Length         int64 `json:"length"`
	Quota          int64 `json:"quota"`
	SpaceConsumed  int64 `json:"spaceConsumed"`
	SpaceQuota     int64 `json:"spaceQuota"`
}

type contentSummaryResponse struct {
	ContentSummary ContentSummary `json:"ContentSummary"`
}

type storagePolicyResponse struct {
	BlockStoragePolicy struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"BlockStoragePolicy"`
}

// RemoteException is the error envelope the NameNode returns on failures.
type RemoteException struct {
	Exception     string `json:"exception"`
	JavaClassName string `json:"javaClassName"`
	Message       string `json:"message"`
}

type remoteExceptionResponse struct {
	RemoteException RemoteException `json:"RemoteException"`
}

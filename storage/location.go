package storage

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Location schemes understood by ParseLocation.
const (
	SchemeLocal = ""
	SchemeFile  = "file"
	SchemeRedis = "redis"
	SchemeS3    = "s3"
)

// Location addresses a dataset. Host is the redis address, the S3 bucket or
// the base directory of a file store; Key is the object key, or the plain
// path for local files.
type Location struct {
	Scheme string
	Host   string
	Key    string
}

// IsRemote reports whether the location needs an ObjectStore.
func (l Location) IsRemote() bool {
	return l.Scheme != SchemeLocal
}

func (l Location) String() string {
	if l.Scheme == SchemeLocal {
		return l.Key
	}
	return l.Scheme + "://" + l.Host + "/" + l.Key
}

// ParseLocation parses a plain path, file://dir/key, redis://host:port/key or
// s3://bucket/key.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.New("empty location")
	}
	if !strings.Contains(s, "://") {
		return Location{Scheme: SchemeLocal, Key: s}, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return Location{}, errors.Wrapf(err, "invalid location %q", s)
	}
	switch u.Scheme {
	case SchemeRedis, SchemeS3:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, errors.Errorf("location %q needs both a host and a key", s)
		}
		return Location{Scheme: u.Scheme, Host: u.Host, Key: key}, nil
	case SchemeFile:
		p := u.Host + u.Path
		if p == "" {
			return Location{}, errors.Errorf("location %q has no path", s)
		}
		return Location{Scheme: SchemeFile, Host: filepath.Dir(p), Key: filepath.Base(p)}, nil
	default:
		return Location{}, errors.Errorf("unsupported location scheme %q", u.Scheme)
	}
}

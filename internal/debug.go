package internal

import (
	"fmt"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/sirupsen/logrus"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion(logger logrus.FieldLogger) {
	logger.WithFields(logrus.Fields{
		"version":  versioninfo.Short(),
		"revision": versioninfo.Revision,
		"modified": versioninfo.DirtyBuild,
	}).Info("Version")
}

// EnvironmentVars logs the FACEBLUR_* and GIN_* settings, masking anything
// that looks like a credential.
func EnvironmentVars(logger logrus.FieldLogger) {
	environ := os.Environ()
	sort.Slice(environ, func(i, j int) bool {
		keyI := strings.SplitN(environ[i], "=", 2)[0]
		keyJ := strings.SplitN(environ[j], "=", 2)[0]
		return keyI < keyJ
	})

	fields := logrus.Fields{}
	for _, entry := range environ {
		kv := strings.SplitN(entry, "=", 2)
		if !strings.HasPrefix(kv[0], "FACEBLUR_") && !strings.HasPrefix(kv[0], "GIN_") {
			continue
		}
		fields[kv[0]] = maskValue(kv[0], kv[1])
	}
	logger.WithFields(fields).Info("Environment variables")
}

func maskValue(key, value string) string {
	if sensitiveRegex.MatchString(key) {
		return "********"
	}
	return value
}

func UserInfo(logger logrus.FieldLogger) {
	fields := logrus.Fields{"pid": os.Getpid()}

	currentUser, err := user.Current()
	if err != nil {
		logger.WithError(err).Warn("Error getting current user")
	} else {
		fields["user"] = fmt.Sprintf("uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid)
	}

	groups, err := os.Getgroups()
	if err != nil {
		logger.WithError(err).Warn("Error getting groups")
	} else {
		groupNames := make([]string, 0, len(groups))
		for _, gid := range groups {
			group, err := user.LookupGroupId(strconv.Itoa(gid))
			if err != nil {
				groupNames = append(groupNames, strconv.Itoa(gid)) // Append ID if name lookup fails
			} else {
				groupNames = append(groupNames, fmt.Sprintf("%s(%s)", group.Name, group.Gid))
			}
		}
		fields["groups"] = groupNames
	}

	logger.WithFields(fields).Info("Process")
}

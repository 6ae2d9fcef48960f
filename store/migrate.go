package store

import (
	"context"
	"encoding/json"
	"github.com/shimmeringbee/logwrap"
	"os"
	"strings"
)

const LegacyControllerId = "legacy"
const LegacyControllerName = "Legacy Import"
const LegacyBackupSuffix = ".backup"

// migrateLegacy lifts the pre-hierarchy flat file, a mapping of device name
// to command sub-maps, into the store under a single synthetic controller.
// It runs only when the store has never been populated, and any failure is
// swallowed so a bad legacy file cannot block startup. Called with the store
// lock held.
func (s *CommandStore) migrateLegacy(ctx context.Context) {
	if s.legacyLocation == "" {
		return
	}

	data, err := os.ReadFile(s.legacyLocation)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.LogError(ctx, "Failed to read legacy command file, skipping migration.", logwrap.Err(err))
		}

		return
	}

	legacy := map[string]map[string]Command{}

	if err := json.Unmarshal(data, &legacy); err != nil {
		s.logger.LogError(ctx, "Failed to parse legacy command file, skipping migration.", logwrap.Err(err))
		return
	}

	controller := &Controller{
		Name:       LegacyControllerName,
		EndpointId: DefaultEndpointId,
		ClusterId:  DefaultClusterId,
		Devices:    map[string]Device{},
	}

	for deviceName, commands := range legacy {
		if commands == nil {
			commands = map[string]Command{}
		}

		controller.Devices[IdFromName(deviceName)] = Device{
			Name:     titleFromId(deviceName),
			Commands: commands,
		}
	}

	migrated := map[string]*Controller{LegacyControllerId: controller}

	previous := s.controllers
	s.controllers = migrated

	if err := s.persist(); err != nil {
		s.controllers = previous
		s.logger.LogError(ctx, "Failed to persist migrated commands, proceeding without migration.", logwrap.Err(err))
		return
	}

	backupLocation := s.legacyLocation + LegacyBackupSuffix

	if err := os.Rename(s.legacyLocation, backupLocation); err != nil {
		s.logger.LogError(ctx, "Failed to move legacy command file to backup location.", logwrap.Err(err), logwrap.Datum("backup", backupLocation))
	}

	s.logger.LogInfo(ctx, "Migrated legacy command file.", logwrap.Datum("deviceCount", len(controller.Devices)), logwrap.Datum("backup", backupLocation))
}

func titleFromId(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}

	return strings.Join(words, " ")
}

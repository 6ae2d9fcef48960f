package store

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/irbridge/controller/config"
	"github.com/irbridge/controller/validate"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/zigbee"
	"os"
	"strings"
	"sync"
)

type Command struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Device struct {
	Name     string             `json:"name"`
	Type     string             `json:"type,omitempty"`
	Commands map[string]Command `json:"commands"`
}

type Controller struct {
	IEEE       string           `json:"ieee"`
	Name       string           `json:"name"`
	RoomName   string           `json:"room_name"`
	EndpointId zigbee.Endpoint  `json:"endpoint_id"`
	ClusterId  zigbee.ClusterID `json:"cluster_id"`

	Devices map[string]Device `json:"devices"`
}

const DefaultEndpointId = zigbee.Endpoint(1)
const DefaultClusterId = zigbee.ClusterID(0xe004)

const DefaultFilePermissions = 0600

// CommandStore is the sole owner of the persisted controller hierarchy. All
// mutations serialize on a single writer lock and persist before returning;
// read accessors copy the in-memory state and may run concurrently, observing
// either side of an in-flight mutation.
type CommandStore struct {
	lock *sync.RWMutex

	fileLocation   string
	legacyLocation string

	controllers map[string]*Controller
	loaded      bool

	logger         logwrap.Logger
	eventPublisher EventPublisher
}

func New(fileLocation string, legacyLocation string, l logwrap.Logger, ep EventPublisher) *CommandStore {
	return &CommandStore{
		lock:           &sync.RWMutex{},
		fileLocation:   fileLocation,
		legacyLocation: legacyLocation,
		controllers:    map[string]*Controller{},
		logger:         l,
		eventPublisher: ep,
	}
}

// IdFromName derives the stable identifier a human name is stored under.
func IdFromName(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "-", "_")
	return id
}

type persistedState struct {
	Controllers map[string]*Controller `json:"controllers"`
}

const CorruptBackupSuffix = ".corrupt"

// Load reads the persisted hierarchy, migrating the legacy flat file if the
// store has never been populated. A missing file initializes an empty store
// and persists it immediately; a corrupt file is moved aside for manual
// recovery before the empty store is persisted in its place. Load never
// fails: startup must proceed regardless of the state on disk.
func (s *CommandStore) Load(ctx context.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	persistAfterLoad := true

	data, err := os.ReadFile(s.fileLocation)

	switch {
	case os.IsNotExist(err):
		s.logger.LogInfo(ctx, "No command store found, initialising empty store.", logwrap.Datum("file", s.fileLocation))
	case err != nil:
		s.logger.LogError(ctx, "Failed to read command store, continuing with empty store.", logwrap.Err(err))
		persistAfterLoad = false
	default:
		loaded := persistedState{}

		if err := json.Unmarshal(data, &loaded); err != nil {
			s.logger.LogError(ctx, "Failed to parse command store, continuing with empty store.", logwrap.Err(err))
			persistAfterLoad = s.quarantineCorrupt(ctx)
		} else if loaded.Controllers != nil {
			s.controllers = loaded.Controllers
		}
	}

	if len(s.controllers) == 0 && persistAfterLoad {
		s.migrateLegacy(ctx)
	}

	if persistAfterLoad {
		if err := s.persist(); err != nil {
			s.logger.LogError(ctx, "Failed initial persist of command store.", logwrap.Err(err))
		}
	}

	s.loaded = true
}

// quarantineCorrupt moves an unparseable store file aside so the initial
// persist cannot destroy it, reporting whether persisting is now safe.
func (s *CommandStore) quarantineCorrupt(ctx context.Context) bool {
	backupLocation := s.fileLocation + CorruptBackupSuffix

	if err := os.Rename(s.fileLocation, backupLocation); err != nil {
		s.logger.LogError(ctx, "Failed to move corrupt command store to backup location, leaving file untouched.", logwrap.Err(err), logwrap.Datum("backup", backupLocation))
		return false
	}

	s.logger.LogWarn(ctx, "Moved corrupt command store to backup location.", logwrap.Datum("backup", backupLocation))
	return true
}

// Save persists the current in-memory state, returning success. On failure
// the in-memory state is untouched and the previously persisted file remains
// intact, so the caller may retry.
func (s *CommandStore) Save(ctx context.Context) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.persistLogged(ctx)
}

func (s *CommandStore) persist() error {
	data, err := json.Marshal(persistedState{Controllers: s.controllers})
	if err != nil {
		return err
	}

	return config.SafeWriteFile(s.fileLocation, data, DefaultFilePermissions)
}

func (s *CommandStore) persistLogged(ctx context.Context) bool {
	if err := s.persist(); err != nil {
		s.logger.LogError(ctx, "Failed to persist command store.", logwrap.Err(err))
		return false
	}

	return true
}

func (s *CommandStore) AddController(ctx context.Context, id string, name string, ieee string, roomName string, endpoint zigbee.Endpoint, cluster zigbee.ClusterID) bool {
	if !validate.Valid(name) {
		s.logger.LogWarn(ctx, "Rejected controller with invalid name.", logwrap.Datum("name", name))
		return false
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, present := s.controllers[id]; present {
		s.logger.LogWarn(ctx, "Rejected controller with duplicate id.", logwrap.Datum("controller", id))
		return false
	}

	s.controllers[id] = &Controller{
		IEEE:       ieee,
		Name:       name,
		RoomName:   roomName,
		EndpointId: endpoint,
		ClusterId:  cluster,
		Devices:    map[string]Device{},
	}

	if !s.persistLogged(ctx) {
		return false
	}

	s.logger.LogInfo(ctx, "Added controller.", logwrap.Datum("controller", id))
	s.eventPublisher.Publish(ControllerAdded{Id: id})

	return true
}

func (s *CommandStore) RemoveController(ctx context.Context, id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, present := s.controllers[id]; !present {
		s.logger.LogWarn(ctx, "Remove of unknown controller.", logwrap.Datum("controller", id))
		return false
	}

	delete(s.controllers, id)

	if !s.persistLogged(ctx) {
		return false
	}

	s.logger.LogInfo(ctx, "Removed controller and all nested devices.", logwrap.Datum("controller", id))
	s.eventPublisher.Publish(ControllerRemoved{Id: id})

	return true
}

func (s *CommandStore) AddDevice(ctx context.Context, controllerId string, deviceId string, name string, deviceType string) bool {
	if !validate.Valid(name) {
		s.logger.LogWarn(ctx, "Rejected device with invalid name.", logwrap.Datum("name", name))
		return false
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	controller, present := s.controllers[controllerId]
	if !present {
		s.logger.LogWarn(ctx, "Add device to unknown controller.", logwrap.Datum("controller", controllerId))
		return false
	}

	if _, present := controller.Devices[deviceId]; present {
		s.logger.LogWarn(ctx, "Rejected device with duplicate id.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId))
		return false
	}

	controller.Devices[deviceId] = Device{
		Name:     name,
		Type:     deviceType,
		Commands: map[string]Command{},
	}

	if !s.persistLogged(ctx) {
		return false
	}

	s.logger.LogInfo(ctx, "Added device.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId))
	s.eventPublisher.Publish(DeviceAdded{ControllerId: controllerId, DeviceId: deviceId})

	return true
}

func (s *CommandStore) RemoveDevice(ctx context.Context, controllerId string, deviceId string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	controller, present := s.controllers[controllerId]
	if !present {
		s.logger.LogWarn(ctx, "Remove device from unknown controller.", logwrap.Datum("controller", controllerId))
		return false
	}

	if _, present := controller.Devices[deviceId]; !present {
		s.logger.LogWarn(ctx, "Remove of unknown device.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId))
		return false
	}

	delete(controller.Devices, deviceId)

	if !s.persistLogged(ctx) {
		return false
	}

	s.logger.LogInfo(ctx, "Removed device and all nested commands.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId))
	s.eventPublisher.Publish(DeviceRemoved{ControllerId: controllerId, DeviceId: deviceId})

	return true
}

// AddCommand stores a learned code under a device. An existing command id is
// overwritten rather than rejected, supporting re-learning of a code that was
// captured badly the first time. An omitted display name is derived from the
// device and command ids.
func (s *CommandStore) AddCommand(ctx context.Context, controllerId string, deviceId string, commandId string, name string, code string) bool {
	if name == "" {
		name = strings.ToUpper(deviceId) + " " + titleFromId(commandId)
	}

	if !validate.Valid(name) {
		s.logger.LogWarn(ctx, "Rejected command with invalid name.", logwrap.Datum("name", name))
		return false
	}

	if len(code) == 0 {
		s.logger.LogWarn(ctx, "Rejected command with empty code.", logwrap.Datum("command", commandId))
		return false
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	controller, present := s.controllers[controllerId]
	if !present {
		s.logger.LogWarn(ctx, "Add command to unknown controller.", logwrap.Datum("controller", controllerId))
		return false
	}

	device, present := controller.Devices[deviceId]
	if !present {
		s.logger.LogWarn(ctx, "Add command to unknown device.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId))
		return false
	}

	_, overwrote := device.Commands[commandId]
	if overwrote {
		s.logger.LogWarn(ctx, "Overwriting existing command.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId), logwrap.Datum("command", commandId))
	}

	device.Commands[commandId] = Command{
		Name:        name,
		Code:        code,
		Description: fmt.Sprintf("IR code for %s %s", deviceId, commandId),
	}

	if !s.persistLogged(ctx) {
		return false
	}

	if !overwrote {
		s.logger.LogInfo(ctx, "Stored new command.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId), logwrap.Datum("command", commandId))
	}

	s.eventPublisher.Publish(CommandStored{ControllerId: controllerId, DeviceId: deviceId, CommandId: commandId, Overwrote: overwrote})

	return true
}

func (s *CommandStore) RemoveCommand(ctx context.Context, controllerId string, deviceId string, commandId string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	controller, present := s.controllers[controllerId]
	if !present {
		s.logger.LogWarn(ctx, "Remove command from unknown controller.", logwrap.Datum("controller", controllerId))
		return false
	}

	device, present := controller.Devices[deviceId]
	if !present {
		s.logger.LogWarn(ctx, "Remove command from unknown device.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId))
		return false
	}

	if _, present := device.Commands[commandId]; !present {
		s.logger.LogWarn(ctx, "Remove of unknown command.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId), logwrap.Datum("command", commandId))
		return false
	}

	delete(device.Commands, commandId)

	if !s.persistLogged(ctx) {
		return false
	}

	s.logger.LogInfo(ctx, "Removed command.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId), logwrap.Datum("command", commandId))
	s.eventPublisher.Publish(CommandRemoved{ControllerId: controllerId, DeviceId: deviceId, CommandId: commandId})

	return true
}

func (s *CommandStore) Controllers() map[string]Controller {
	s.lock.RLock()
	defer s.lock.RUnlock()

	result := make(map[string]Controller, len(s.controllers))

	for id, controller := range s.controllers {
		result[id] = copyController(*controller)
	}

	return result
}

func (s *CommandStore) Controller(id string) (Controller, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if controller, found := s.controllers[id]; found {
		return copyController(*controller), true
	}

	return Controller{}, false
}

func (s *CommandStore) Devices(controllerId string) map[string]Device {
	s.lock.RLock()
	defer s.lock.RUnlock()

	controller, found := s.controllers[controllerId]
	if !found {
		return map[string]Device{}
	}

	result := make(map[string]Device, len(controller.Devices))

	for id, device := range controller.Devices {
		result[id] = copyDevice(device)
	}

	return result
}

func (s *CommandStore) Device(controllerId string, deviceId string) (Device, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if controller, found := s.controllers[controllerId]; found {
		if device, found := controller.Devices[deviceId]; found {
			return copyDevice(device), true
		}
	}

	return Device{}, false
}

func (s *CommandStore) Commands(controllerId string, deviceId string) map[string]Command {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if controller, found := s.controllers[controllerId]; found {
		if device, found := controller.Devices[deviceId]; found {
			result := make(map[string]Command, len(device.Commands))

			for id, command := range device.Commands {
				result[id] = command
			}

			return result
		}
	}

	return map[string]Command{}
}

func (s *CommandStore) CommandCode(controllerId string, deviceId string, commandId string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if controller, found := s.controllers[controllerId]; found {
		if device, found := controller.Devices[deviceId]; found {
			if command, found := device.Commands[commandId]; found {
				return command.Code, true
			}
		}
	}

	return "", false
}

type Snapshot struct {
	Version     string                `json:"version"`
	Controllers map[string]Controller `json:"controllers"`
}

const SnapshotVersion = "1"

func (s *CommandStore) Export() Snapshot {
	return Snapshot{
		Version:     SnapshotVersion,
		Controllers: s.Controllers(),
	}
}

// Import replaces the entire store with the snapshot. If the replacement
// cannot be persisted the previous in-memory state is restored, so a failed
// import leaves the store observably unchanged.
func (s *CommandStore) Import(ctx context.Context, snapshot Snapshot) bool {
	if snapshot.Controllers == nil {
		s.logger.LogWarn(ctx, "Rejected import of snapshot without controllers.")
		return false
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	previous := s.controllers

	replacement := make(map[string]*Controller, len(snapshot.Controllers))
	for id, controller := range snapshot.Controllers {
		imported := copyController(controller)

		if imported.Devices == nil {
			imported.Devices = map[string]Device{}
		}

		replacement[id] = &imported
	}

	s.controllers = replacement

	if !s.persistLogged(ctx) {
		s.controllers = previous
		s.logger.LogError(ctx, "Import failed to persist, previous state restored.")
		return false
	}

	s.logger.LogInfo(ctx, "Imported snapshot.", logwrap.Datum("controllerCount", len(replacement)))
	s.eventPublisher.Publish(StoreImported{})

	return true
}

func copyController(c Controller) Controller {
	devices := make(map[string]Device, len(c.Devices))

	for id, device := range c.Devices {
		devices[id] = copyDevice(device)
	}

	c.Devices = devices

	return c
}

func copyDevice(d Device) Device {
	commands := make(map[string]Command, len(d.Commands))

	for id, command := range d.Commands {
		commands[id] = command
	}

	d.Commands = commands

	return d
}

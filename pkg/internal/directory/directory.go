package directory

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/samber/lo"
)

var ErrChannelNotFound = errors.New("channel not found")

// Filter narrows the channel list. Both predicates must hold: the name
// match is a case-insensitive substring, the kind match is exact.
type Filter struct {
	Text string
	Kind models.ChannelKind
}

// Directory is the channel catalog. It owns channel metadata (pin, mute,
// unread, preview) and materializes direct channels on demand.
type Directory struct {
	mtx      sync.Mutex
	order    []string
	channels map[string]*models.Channel
	users    map[string]models.User
	userList []models.User
	bus      *bus.Bus
}

func New(eventBus *bus.Bus) *Directory {
	return &Directory{
		channels: make(map[string]*models.Channel),
		users:    make(map[string]models.User),
		bus:      eventBus,
	}
}

// AddUser registers a user in the mentionable directory.
func (d *Directory) AddUser(user models.User) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if _, ok := d.users[user.ID]; !ok {
		d.userList = append(d.userList, user)
	}
	d.users[user.ID] = user
}

func (d *Directory) Users() []models.User {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	out := make([]models.User, len(d.userList))
	copy(out, d.userList)
	return out
}

func (d *Directory) GetUser(id string) (models.User, bool) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	user, ok := d.users[id]
	return user, ok
}

// AddChannel appends a channel to the catalog, keeping insertion order.
// An existing channel with the same id is replaced in place.
func (d *Directory) AddChannel(channel models.Channel) models.Channel {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.addLocked(channel)
}

func (d *Directory) addLocked(channel models.Channel) models.Channel {
	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = time.Now()
	}
	if _, ok := d.channels[channel.ID]; !ok {
		d.order = append(d.order, channel.ID)
	}
	d.channels[channel.ID] = &channel
	return channel
}

func (d *Directory) List(filter Filter) []models.Channel {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	needle := strings.ToLower(filter.Text)
	out := make([]models.Channel, 0, len(d.order))
	for _, id := range d.order {
		channel := d.channels[id]
		if len(needle) > 0 && !strings.Contains(strings.ToLower(channel.Name), needle) {
			continue
		}
		if len(filter.Kind) > 0 && channel.Kind != filter.Kind {
			continue
		}
		out = append(out, *channel)
	}
	return out
}

func (d *Directory) Get(id string) (models.Channel, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if channel, ok := d.channels[id]; ok {
		return *channel, nil
	}
	return models.Channel{}, ErrChannelNotFound
}

// Select returns the channel and clears its unread counter, the way
// opening a panel marks it read.
func (d *Directory) Select(id string) (models.Channel, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	channel, ok := d.channels[id]
	if !ok {
		return models.Channel{}, ErrChannelNotFound
	}
	channel.UnreadCount = 0
	return *channel, nil
}

// OpenDirect returns the direct channel between the two users, creating
// it on first use. Calling it again with the same pair yields the same
// channel, id included.
func (d *Directory) OpenDirect(currentUser, otherUser string) models.Channel {
	d.mtx.Lock()

	id := models.DirectChannelID(currentUser, otherUser)
	if channel, ok := d.channels[id]; ok {
		d.mtx.Unlock()
		return *channel
	}

	name := otherUser
	if user, ok := d.users[otherUser]; ok {
		name = user.Name
	}
	channel := d.addLocked(models.Channel{
		ID:      id,
		Name:    name,
		Kind:    models.ChannelKindDirect,
		Members: []string{currentUser, otherUser},
	})
	d.mtx.Unlock()

	d.bus.Publish(bus.TopicChannelUpdate, channel)
	return channel
}

// TouchPreview records the latest message excerpt on the channel and, for
// messages arriving outside the selected panel, bumps the unread count.
func (d *Directory) TouchPreview(channelId, preview string, unread bool) {
	d.mtx.Lock()
	channel, ok := d.channels[channelId]
	if !ok {
		d.mtx.Unlock()
		return
	}
	channel.LastMessagePreview = preview
	if unread {
		channel.UnreadCount++
	}
	snapshot := *channel
	d.mtx.Unlock()

	d.bus.Publish(bus.TopicChannelUpdate, snapshot)
}

func (d *Directory) TogglePinned(id string) (models.Channel, error) {
	return d.toggle(id, func(c *models.Channel) { c.IsPinned = !c.IsPinned })
}

func (d *Directory) ToggleMuted(id string) (models.Channel, error) {
	return d.toggle(id, func(c *models.Channel) { c.IsMuted = !c.IsMuted })
}

func (d *Directory) toggle(id string, apply func(*models.Channel)) (models.Channel, error) {
	d.mtx.Lock()
	channel, ok := d.channels[id]
	if !ok {
		d.mtx.Unlock()
		return models.Channel{}, ErrChannelNotFound
	}
	apply(channel)
	snapshot := *channel
	d.mtx.Unlock()

	d.bus.Publish(bus.TopicChannelUpdate, snapshot)
	return snapshot, nil
}

// MemberNames resolves channel members to display names for listings.
func (d *Directory) MemberNames(channel models.Channel) []string {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return lo.Map(channel.Members, func(id string, _ int) string {
		if user, ok := d.users[id]; ok {
			return user.Name
		}
		return fmt.Sprintf("user #%s", id)
	})
}

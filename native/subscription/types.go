package subscription

const (
	// MaxNameLength bounds tier names to 20 characters.
	MaxNameLength = 20
	// MaxDescriptionLength bounds tier descriptions to 100 characters.
	MaxDescriptionLength = 100
	// SecondsPerDay converts tier durations into unlock timestamps.
	SecondsPerDay int64 = 86_400
)

// Status enumerates the subscription lifecycle.
type Status uint8

const (
	// StatusActive marks a paid subscription inside its window.
	StatusActive Status = iota
	// StatusExpired marks a subscription past its end date.
	StatusExpired
	// StatusCancelled marks a subscription the subscriber ended early.
	StatusCancelled
)

// String renders the status for logs and events.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExpired:
		return "expired"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Tier is a creator-defined subscription offering, keyed by (creator, tierID).
type Tier struct {
	Creator         [20]byte
	TierID          uint64
	Name            string
	Description     string
	Price           uint64
	DurationDays    uint64
	SubscriberCount uint64
	CreatedAt       int64
}

// Clone returns a deep copy of the tier record.
func (t *Tier) Clone() *Tier {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

// Subscription is a paid membership, keyed by (subscriber, creator, tierID).
type Subscription struct {
	Subscriber [20]byte
	Creator    [20]byte
	TierID     uint64
	StartDate  int64
	EndDate    int64
	Status     Status
	AutoRenew  bool
	CreatedAt  int64
}

// Clone returns a deep copy of the subscription record.
func (s *Subscription) Clone() *Subscription {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// Active reports whether the subscription is live at the given time.
func (s *Subscription) Active(now int64) bool {
	if s == nil {
		return false
	}
	return s.Status == StatusActive && now < s.EndDate
}

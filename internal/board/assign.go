package board

import (
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
)

// PickLeastLoaded returns the user holding the fewest tasks that are not
// Done, together with that count. Ties go to the user that comes first in
// users, so callers pass users in a stable order (the store sorts by id).
func PickLeastLoaded(users []models.User, tasks []models.Task) (models.User, int, error) {
	if len(users) == 0 {
		return models.User{}, 0, ErrNoUsersAvailable
	}

	load := make(map[uint]int, len(users))

	for _, task := range tasks {
		if task.Status == types.StatusDone || task.AssignedTo == nil {
			continue
		}
		load[*task.AssignedTo]++
	}

	best := 0

	for i := 1; i < len(users); i++ {
		if load[users[i].ID] < load[users[best].ID] {
			best = i
		}
	}

	return users[best], load[users[best].ID], nil
}

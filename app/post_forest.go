package app

import (
	"sort"

	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

type ForestOpts struct {
	// SortByScore orders every reply list (and the top level) by descending
	// vote total. Ties keep creation order.
	SortByScore bool
}

// BuildPostForest turns a thread's flat post bag into a forest of reply trees.
// Posts whose declared parent is absent from the bag are promoted to the top
// level rather than dropped, so the result is always renderable. The input
// slice is expected in creation order and is not mutated.
func BuildPostForest(posts []*model.Post, opts *ForestOpts) []*model.PostTree {
	if opts == nil {
		opts = &ForestOpts{}
	}

	byId := make(map[int64]*model.Post, len(posts))
	nodes := make(map[int64]*model.PostTree, len(posts))
	for _, post := range posts {
		byId[post.Id] = post
		nodes[post.Id] = &model.PostTree{Post: post, Replies: []*model.PostTree{}}
	}

	rootIds := rootSet(posts, byId)
	forest := make([]*model.PostTree, 0, len(posts))
	for _, post := range posts {
		node := nodes[post.Id]
		if rootIds[post.Id] {
			forest = append(forest, node)
			continue
		}
		parent := nodes[post.ParentPostId.Int64]
		parent.Replies = append(parent.Replies, node)
	}

	if opts.SortByScore {
		sortForestByScore(forest)
	}
	return forest
}

func sortForestByScore(forest []*model.PostTree) {
	sort.SliceStable(forest, func(i, j int) bool {
		return forest[i].VoteTotal > forest[j].VoteTotal
	})
	for _, node := range forest {
		sortForestByScore(node.Replies)
	}
}

// rootSet returns the ids that render at the top level: posts with a null
// parent, posts whose parent is missing from the bag (or is the post itself),
// and posts on a parent cycle. A cycle is broken by promoting every post on it;
// posts whose chain merely leads into a cycle stay nested under the promoted
// ones.
func rootSet(posts []*model.Post, byId map[int64]*model.Post) map[int64]bool {
	const (
		visiting int8 = 1
		resolved int8 = 2
	)
	state := make(map[int64]int8, len(posts))
	roots := make(map[int64]bool)

	for _, post := range posts {
		if state[post.Id] == resolved {
			continue
		}
		var path []*model.Post
		cur := post
		for {
			if state[cur.Id] == resolved {
				break
			}
			if naturalRoot(cur, byId) {
				roots[cur.Id] = true
				state[cur.Id] = resolved
				break
			}
			if state[cur.Id] == visiting {
				// the ancestor chain revisited itself; promote the cycle
				for i := len(path) - 1; i >= 0; i-- {
					roots[path[i].Id] = true
					if path[i].Id == cur.Id {
						break
					}
				}
				break
			}
			state[cur.Id] = visiting
			path = append(path, cur)
			cur = byId[cur.ParentPostId.Int64]
		}
		for _, p := range path {
			state[p.Id] = resolved
		}
	}
	return roots
}

func naturalRoot(post *model.Post, byId map[int64]*model.Post) bool {
	if !post.ParentPostId.Valid {
		return true
	}
	parent, ok := byId[post.ParentPostId.Int64]
	return !ok || parent.Id == post.Id
}

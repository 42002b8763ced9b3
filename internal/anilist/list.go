package anilist

import (
	"context"
	"fmt"
	"strings"
)

const viewerQuery = `
query {
  Viewer {
    id
    name
  }
}`

const userQuery = `
query ($username: String) {
  User(name: $username) {
    id
    name
  }
}`

const mangaListQuery = `
query ($userID: Int) {
  MediaListCollection(userId: $userID, type: MANGA) {
    lists {
      status
      entries {
        status
        score(format: POINT_10)
        progress
        media {
          id
          idMal
          title {
            english
            romaji
            native
          }
          format
          status
          chapters
          volumes
          synonyms
        }
      }
    }
  }
}`

// Viewer returns the account the client's token belongs to.
func (c *Client) Viewer(ctx context.Context) (*User, error) {
	var data struct {
		Viewer *User `json:"Viewer"`
	}
	if err := c.do(ctx, viewerQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Viewer == nil {
		return nil, fmt.Errorf("no authenticated user")
	}
	return data.Viewer, nil
}

// LookupUser resolves an AniList username to its account.
func (c *Client) LookupUser(ctx context.Context, username string) (*User, error) {
	var data struct {
		User *User `json:"User"`
	}
	vars := map[string]any{"username": username}
	if err := c.do(ctx, userQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, fmt.Errorf("user not found: %s", username)
	}
	return data.User, nil
}

// MangaList fetches every manga list of the given user. Private entries
// require a token for that user.
func (c *Client) MangaList(ctx context.Context, userID int64) ([]List, error) {
	var data struct {
		MediaListCollection struct {
			Lists []List `json:"lists"`
		} `json:"MediaListCollection"`
	}
	vars := map[string]any{"userID": userID}
	if err := c.do(ctx, mangaListQuery, vars, &data); err != nil {
		return nil, err
	}
	return data.MediaListCollection.Lists, nil
}

// FilterLists keeps the lists whose status is named in the comma-separated
// filter; "all" (or empty) keeps everything.
func FilterLists(lists []List, filter string) []List {
	if filter == "" || filter == "all" {
		return lists
	}
	want := make(map[string]struct{})
	for _, s := range strings.Split(filter, ",") {
		if s = strings.TrimSpace(s); s != "" {
			want[strings.ToUpper(s)] = struct{}{}
		}
	}
	out := make([]List, 0, len(lists))
	for _, l := range lists {
		if _, ok := want[strings.ToUpper(l.Status)]; ok {
			out = append(out, l)
		}
	}
	return out
}

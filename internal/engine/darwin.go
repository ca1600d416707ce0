//go:build darwin

package engine

import (
	"errors"

	gokeychain "github.com/keybase/go-keychain"

	"github.com/benaskins/coffer/internal/query"
	"github.com/benaskins/coffer/internal/status"
)

// SystemEngine executes requests against the macOS Keychain.
type SystemEngine struct{}

// NewSystemEngine returns the Keychain-backed engine.
func NewSystemEngine() *SystemEngine {
	return &SystemEngine{}
}

func (s *SystemEngine) Add(attrs query.Attributes) status.Code {
	item, code := toItem(attrs)
	if code != status.Success {
		return code
	}
	item.SetSynchronizable(gokeychain.SynchronizableNo)
	return codeOf(gokeychain.AddItem(item))
}

func (s *SystemEngine) Fetch(q query.Attributes) ([]query.Attributes, status.Code) {
	item, code := toItem(q)
	if code != status.Success {
		return nil, code
	}
	results, err := gokeychain.QueryItem(item)
	if err != nil {
		return nil, codeOf(err)
	}
	if len(results) == 0 {
		return nil, status.ItemNotFound
	}
	out := make([]query.Attributes, 0, len(results))
	for _, r := range results {
		res := query.Attributes{}
		if r.Account != "" {
			res[query.AttrAccount] = r.Account
		}
		if r.Service != "" {
			res[query.AttrService] = r.Service
		}
		if r.AccessGroup != "" {
			res[query.AttrAccessGroup] = r.AccessGroup
		}
		if r.Data != nil {
			res[query.ValueData] = r.Data
		}
		if !r.CreationDate.IsZero() {
			res[query.AttrCreationDate] = r.CreationDate
		}
		if !r.ModificationDate.IsZero() {
			res[query.AttrModificationDate] = r.ModificationDate
		}
		out = append(out, res)
	}
	return out, status.Success
}

func (s *SystemEngine) Update(q, attrs query.Attributes) status.Code {
	match, code := toItem(q)
	if code != status.Success {
		return code
	}
	update := gokeychain.NewItem()
	if data, ok := attrs[query.ValueData].([]byte); ok {
		update.SetData(data)
	}
	if a, ok := attrs[query.AttrAccessible].(query.Accessibility); ok {
		acc, code := accessibleOf(a)
		if code != status.Success {
			return code
		}
		update.SetAccessible(acc)
	}
	return codeOf(gokeychain.UpdateItem(match, update))
}

func (s *SystemEngine) Remove(q query.Attributes) status.Code {
	item, code := toItem(q)
	if code != status.Success {
		return code
	}
	return codeOf(gokeychain.DeleteItem(item))
}

// toItem translates a request dictionary into the binding's item type.
// Request elements the binding cannot express are rejected with Param,
// which callers see as the store rejecting the request at call time.
func toItem(attrs query.Attributes) (gokeychain.Item, status.Code) {
	item := gokeychain.NewItem()

	if c, ok := attrs[query.AttrClass].(query.Class); ok {
		switch c {
		case query.GenericPassword:
			item.SetSecClass(gokeychain.SecClassGenericPassword)
		case query.InternetPassword:
			item.SetSecClass(gokeychain.SecClassInternetPassword)
		default:
			// The binding only exposes password classes.
			return item, status.Param
		}
	}
	if key, ok := attrs[query.AttrAccount].(string); ok {
		item.SetAccount(key)
	}
	if ns, ok := attrs[query.AttrService].(string); ok {
		item.SetService(ns)
	}
	if g, ok := attrs[query.AttrAccessGroup].(string); ok {
		item.SetAccessGroup(g)
	}
	if a, ok := attrs[query.AttrAccessible].(query.Accessibility); ok {
		acc, code := accessibleOf(a)
		if code != status.Success {
			return item, code
		}
		item.SetAccessible(acc)
	}
	if _, ok := attrs[query.AttrAccessControl]; ok {
		return item, status.Param
	}
	if _, ok := attrs[query.UseAuthContext]; ok {
		return item, status.Param
	}
	if data, ok := attrs[query.ValueData].([]byte); ok {
		item.SetData(data)
	}
	if limit, ok := attrs[query.MatchLimit].(string); ok {
		if limit == query.MatchLimitAll {
			item.SetMatchLimit(gokeychain.MatchLimitAll)
		} else {
			item.SetMatchLimit(gokeychain.MatchLimitOne)
		}
	}
	if rd, ok := attrs[query.ReturnData].(bool); ok {
		item.SetReturnData(rd)
	}
	if ra, ok := attrs[query.ReturnAttributes].(bool); ok {
		item.SetReturnAttributes(ra)
	}
	return item, status.Success
}

func accessibleOf(a query.Accessibility) (gokeychain.Accessible, status.Code) {
	switch a {
	case query.WhenUnlocked:
		return gokeychain.AccessibleWhenUnlocked, status.Success
	case query.AfterFirstUnlock:
		return gokeychain.AccessibleAfterFirstUnlock, status.Success
	case query.WhenUnlockedThisDeviceOnly:
		return gokeychain.AccessibleWhenUnlockedThisDeviceOnly, status.Success
	case query.AfterFirstUnlockThisDeviceOnly:
		return gokeychain.AccessibleAfterFirstUnlockThisDeviceOnly, status.Success
	}
	return gokeychain.AccessibleDefault, status.Param
}

// codeOf recovers the raw OSStatus from a binding error. The binding's
// Error type is the OSStatus value itself.
func codeOf(err error) status.Code {
	if err == nil {
		return status.Success
	}
	var kcErr gokeychain.Error
	if errors.As(err, &kcErr) {
		return status.Code(kcErr)
	}
	return status.Code(-1)
}

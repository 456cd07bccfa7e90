package directory

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// searchPaged runs req against conn repeatedly, threading the server's paging
// control cookie until the server returns an empty one, and hands each page of
// entries to fn. A response without a paging control is treated as the only
// page. The request's control slice is extended with the paging control; any
// controls already present are kept.
func searchPaged(conn ldapConn, req *ldap.SearchRequest, pageSize uint32, fn func(entries []*ldap.Entry) error) error {
	paging := ldap.NewControlPaging(pageSize)
	req.Controls = append(req.Controls, paging)

	for {
		result, err := conn.Search(req)
		if err != nil {
			return fmt.Errorf("directory search failed: %w", err)
		}

		if err := fn(result.Entries); err != nil {
			return err
		}

		ctrl := ldap.FindControl(result.Controls, ldap.ControlTypePaging)
		if ctrl == nil {
			// Server did not negotiate paging: everything fit in one page.
			return nil
		}
		cookie := ctrl.(*ldap.ControlPaging).Cookie
		if len(cookie) == 0 {
			return nil
		}
		paging.SetCookie(cookie)
	}
}

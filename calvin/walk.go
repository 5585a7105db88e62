package calvin

import (
	"fmt"
)

// WalkFunc is called for each header during traversal.
// path is "/" for the generic data header, "/group" for a group and
// "/group/table" for a table.
// obj is *GenericDataHeader, *GroupHeader or *TableHeader.
// Return nil to continue walking, ErrStopWalk to stop quietly, or any other
// error to stop and return it.
type WalkFunc func(path string, obj any) error

// Walk visits the generic data header, then every group followed by its
// tables, in file order.
//
// Example:
//
//	calvin.Walk(f, func(path string, obj any) error {
//	    switch h := obj.(type) {
//	    case *calvin.GroupHeader:
//	        fmt.Println("group:", path)
//	    case *calvin.TableHeader:
//	        fmt.Println("table:", path, "rows:", h.RowCount())
//	    }
//	    return nil
//	})
func Walk(f *File, fn WalkFunc) error {
	if f.closed {
		return ErrClosed
	}
	return stopOK(walkHeader(f.header, fn))
}

func walkHeader(hdr *FileHeader, fn WalkFunc) error {
	if err := fn("/", hdr.Meta); err != nil {
		return err
	}
	for _, g := range hdr.groups {
		if err := fn("/"+g.Name, g); err != nil {
			return err
		}
		for _, t := range g.tables {
			if err := fn(JoinTablePath(g.Name, t.Name), t); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParamInfo describes one parameter during WalkParams.
type ParamInfo struct {
	// Path is the full parameter path, e.g. "/MultiData/Genotype@name".
	Path string

	// ObjectPath is the path of the header holding the parameter.
	ObjectPath string

	// ObjectType is "file", "parent" or "table".
	ObjectType string

	Param TaggedValue
}

// WalkParamsFunc is the callback function type for WalkParams.
type WalkParamsFunc func(info ParamInfo) error

// WalkParams visits every parameter of the generic data header, of its
// parent headers (depth first, at paths "/parent[i]/parent[j]") and of
// every table.
func WalkParams(f *File, fn WalkParamsFunc) error {
	if f.closed {
		return ErrClosed
	}
	err := walkMetaParams(f.header.Meta, "/", "file", fn)
	if err == nil {
		err = walkTableParams(f.header, fn)
	}
	return stopOK(err)
}

func walkMetaParams(h *GenericDataHeader, objPath, objType string, fn WalkParamsFunc) error {
	for _, p := range h.Params.All() {
		info := ParamInfo{
			Path:       JoinParamPath(objPath, p.Name),
			ObjectPath: objPath,
			ObjectType: objType,
			Param:      p,
		}
		if err := fn(info); err != nil {
			return err
		}
	}
	for i, parent := range h.parents {
		childPath := CleanPath(fmt.Sprintf("%s/parent[%d]", objPath, i))
		if err := walkMetaParams(parent, childPath, "parent", fn); err != nil {
			return err
		}
	}
	return nil
}

func walkTableParams(hdr *FileHeader, fn WalkParamsFunc) error {
	for _, g := range hdr.groups {
		for _, t := range g.tables {
			objPath := JoinTablePath(g.Name, t.Name)
			for _, p := range t.Params() {
				info := ParamInfo{
					Path:       JoinParamPath(objPath, p.Name),
					ObjectPath: objPath,
					ObjectType: "table",
					Param:      p,
				}
				if err := fn(info); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ErrStopWalk can be returned from a walk callback to stop walking without an error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	_, ok := err.(*walkStopError)
	return ok
}

func stopOK(err error) error {
	if IsStopWalk(err) {
		return nil
	}
	return err
}

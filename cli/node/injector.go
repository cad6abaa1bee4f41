package node

import (
	"reflect"
	"sync"

	"golang.org/x/xerrors"
)

// reflectInjector is a dependency injection service based on reflection.
//
// - implements node.Injector
type reflectInjector struct {
	sync.Mutex
	mapper map[reflect.Type]interface{}
}

// NewInjector returns a empty injector.
func NewInjector() Injector {
	return &reflectInjector{
		mapper: make(map[reflect.Type]interface{}),
	}
}

// Resolve implements node.Injector. It populates the input with the
// dependency if it exists.
func (inj *reflectInjector) Resolve(v interface{}) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Ptr {
		return xerrors.New("expect a pointer")
	}

	inj.Lock()
	defer inj.Unlock()

	for typ, dep := range inj.mapper {
		if typ.AssignableTo(value.Elem().Type()) {
			value.Elem().Set(reflect.ValueOf(dep))
			return nil
		}
	}

	return xerrors.Errorf("couldn't find dependency for '%v'", value.Elem().Type())
}

// Inject implements node.Injector. It stores the dependency to be
// resolved later.
func (inj *reflectInjector) Inject(v interface{}) {
	inj.Lock()
	inj.mapper[reflect.TypeOf(v)] = v
	inj.Unlock()
}

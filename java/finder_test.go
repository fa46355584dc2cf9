package java

import "testing"

// mapFinder is a ClassFinder over a fixed set of models.
type mapFinder map[string]*ClassModel

func (m mapFinder) FindClass(name string) *ClassModel { return m[name] }

var coreSources = []string{
	`package java.lang;
public class Object {
    public boolean equals(Object obj) { return true; }
    public native int hashCode();
    public String toString() { return null; }
    public final native Class<?> getClass();
}`,
	`package java.lang;
public final class String implements CharSequence, Comparable<String> {
    public int length() { return 0; }
    public boolean isEmpty() { return false; }
    public int compareTo(String other) { return 0; }
    public static String valueOf(Object obj) { return null; }
}`,
	`package java.lang;
public interface CharSequence { int length(); }`,
	`package java.lang;
public interface Comparable<T> { int compareTo(T o); }`,
	`package java.lang;
public final class Class<T> { public String getName() { return null; } }`,
	`package java.lang;
public abstract class Number { public abstract int intValue(); }`,
	`package java.lang;
public final class Integer extends Number implements Comparable<Integer> {
    public int intValue() { return 0; }
    public int compareTo(Integer other) { return 0; }
}`,
	`package java.lang;
public abstract class Enum<E extends Enum<E>> implements Comparable<E> {
    public final String name() { return null; }
    public final int ordinal() { return 0; }
    public final int compareTo(E o) { return 0; }
}`,
	`package java.lang;
public abstract class Record {}`,
	`package java.lang;
public interface Runnable { void run(); }`,
	`package java.lang;
public interface Iterable<T> { java.util.Iterator<T> iterator(); }`,
	`package java.util;
public interface Iterator<E> { boolean hasNext(); E next(); }`,
	`package java.util;
public interface Collection<E> extends Iterable<E> {
    int size();
    boolean add(E e);
    boolean equals(Object o);
    default java.util.stream.Stream<E> stream() { return null; }
}`,
	`package java.util;
public interface List<E> extends Collection<E> {
    E get(int index);
    boolean add(E e);
    static <E> List<E> of(E... elements) { return null; }
}`,
	`package java.util;
public class ArrayList<E> extends AbstractList<E> implements List<E> {
    public ArrayList() {}
    public ArrayList(int initialCapacity) {}
    public E get(int index) { return null; }
    private void grow() {}
}`,
	`package java.util;
public abstract class AbstractList<E> implements List<E> {
    protected int modCount;
    public boolean add(E e) { return true; }
    private void check() {}
}`,
	`package java.util;
public interface Map<K, V> {
    V get(Object key);
    interface Entry<K, V> { K getKey(); V getValue(); }
}`,
	`package java.util.function;
@FunctionalInterface
public interface Function<T, R> {
    R apply(T t);
    default <V> Function<T, V> andThen(Function<? super R, ? extends V> after) { return null; }
    static <T> Function<T, T> identity() { return null; }
}`,
	`package java.util.function;
public interface Supplier<T> { T get(); }`,
	`package java.util.stream;
public interface Stream<T> {
    <R> Stream<R> map(java.util.function.Function<? super T, ? extends R> mapper);
}`,
}

// loadSources models every source in two rounds so that references
// between files resolve regardless of order.
func loadSources(t *testing.T, sources ...string) mapFinder {
	t.Helper()
	finder := mapFinder{}
	for round := 0; round < 2; round++ {
		next := mapFinder{}
		for i, src := range sources {
			sf := ParseSourceFile("", []byte(src))
			models := sf.ClassModels(finder)
			if len(models) == 0 {
				t.Fatalf("source %d declares no types", i)
			}
			for _, c := range models {
				next[c.Name] = c
			}
		}
		finder = next
	}
	return finder
}

func coreFinder(t *testing.T, extra ...string) mapFinder {
	t.Helper()
	return loadSources(t, append(append([]string(nil), coreSources...), extra...)...)
}
